package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

func keysOf(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func firstOf(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out)
	return out[0]
}

func sampleProfile() models.Profile {
	return models.Profile{
		ID:                uuid.New(),
		DescriptionRU:     "Бэкенд",
		DescriptionEN:     "Backend",
		DescriptionRUHTML: "<p>Бэкенд</p>\n",
		DescriptionENHTML: "<p>Backend</p>\n",
		TaskIDs:           []uuid.UUID{uuid.New()},
		TasksCount:        1,
		Files:             []models.ProfileFile{{Path: "profiles/a/brief.pdf"}},
	}
}

func sampleTask() models.Task {
	return models.Task{
		ID:                uuid.New(),
		ProfileID:         uuid.New(),
		TitleRU:           "Задача",
		TitleEN:           "Task",
		DescriptionRU:     "описание",
		DescriptionEN:     "description",
		DescriptionRUHTML: "<p>описание</p>\n",
		DescriptionENHTML: "<p>description</p>\n",
		Status:            models.TaskAvailable,
		Type:              models.TaskFree,
		SubmissionsCount:  3,
	}
}

func assertLangFields(t *testing.T, got map[string]any, l lang.Lang, bases ...string) {
	t.Helper()
	other := lang.Exclude(l)
	for _, base := range bases {
		assert.Contains(t, got, lang.Column(base, l))
		assert.NotContains(t, got, lang.Column(base, other))
	}
}

func TestProfileProjections_ExcludeOtherLanguage(t *testing.T) {
	p := sampleProfile()
	for _, l := range lang.All() {
		t.Run(string(l), func(t *testing.T) {
			list := firstOf(t, ProfileList(l, []models.Profile{p}))
			assertLangFields(t, list, l, "description")
			assert.Contains(t, list, lang.Column("description", l)+"_html")
			assert.NotContains(t, list, lang.Column("description", lang.Exclude(l))+"_html")
			assert.NotContains(t, list, "tasks")
			assert.NotContains(t, list, "files")
			assert.EqualValues(t, 1, list["tasks_count"])

			adminList := firstOf(t, AdminProfileList(l, []models.Profile{p}))
			assert.Equal(t, list, adminList)

			detail := keysOf(t, ProfileDetail(l, p))
			assertLangFields(t, detail, l, "description")
			assert.Contains(t, detail, "tasks")
			assert.NotContains(t, detail, "files")

			adminDetail := keysOf(t, AdminProfileDetail(l, p))
			assertLangFields(t, adminDetail, l, "description")
			assert.Equal(t, []any{map[string]any{"file": "/media/profiles/a/brief.pdf"}}, adminDetail["files"])
		})
	}
}

func TestTaskProjections_ExcludeOtherLanguage(t *testing.T) {
	task := sampleTask()
	for _, l := range lang.All() {
		t.Run(string(l), func(t *testing.T) {
			list := firstOf(t, TaskList(l, []models.Task{task}))
			assertLangFields(t, list, l, "title", "description")
			assert.NotContains(t, list, "profile")
			assert.NotContains(t, list, "profile_id")
			assert.EqualValues(t, 3, list["submissions_count"])

			detail := keysOf(t, TaskDetail(l, task))
			assertLangFields(t, detail, l, "title", "description")
			assert.Equal(t, task.ProfileID.String(), detail["profile_id"])
			assert.Equal(t, map[string]any{"files": []any{}}, detail["profile"])

			adminDetail := keysOf(t, AdminTaskDetail(l, task))
			assert.Equal(t, detail, adminDetail)
			assert.Equal(t, list, firstOf(t, AdminTaskList(l, []models.Task{task})))
		})
	}
}

func TestNewPage(t *testing.T) {
	p := models.Pager{Number: 2, Size: 10, URL: "http://host/api/v1/ru/profiles/?page=2"}
	page := NewPage(25, p, []int{1})

	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://host/api/v1/ru/profiles/?page=3", *page.Next)
	assert.Equal(t, "http://host/api/v1/ru/profiles/", *page.Previous)

	last := NewPage(25, models.Pager{Number: 3, Size: 10, URL: p.URL}, []int{})
	assert.Nil(t, last.Next)

	data, err := json.Marshal(NewPage(1, models.Pager{Number: 1, Size: 10, URL: p.URL}, []int{7}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"next":null,"previous":null,"results":[7]}`, string(data))
}

func TestSubmissionViews(t *testing.T) {
	s := models.Submission{
		ID:      uuid.New(),
		TaskID:  uuid.New(),
		UserID:  uuid.New(),
		Comment: "done",
		Status:  models.SubmissionWaiting,
		History: []models.SubmissionHistory{{ID: uuid.New(), PreviousComment: "draft", ChangedAt: time.Now()}},
	}

	own := keysOf(t, OwnSubmission(s))
	assert.NotContains(t, own, "id")
	assert.NotContains(t, own, "change_history")

	admin := keysOf(t, AdminSubmissionDetail(s))
	assert.Contains(t, admin, "id")
	history, ok := admin["change_history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 1)

	groups := SubmissionGroups([]models.SubmissionGroup{{TaskID: s.TaskID, Submissions: []models.Submission{s}}})
	require.Len(t, groups, 1)
	assert.Equal(t, s.ID, groups[0].Submissions[0].ID)
}
