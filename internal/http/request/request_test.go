package request

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestLang(t *testing.T) {
	req := withParams(httptest.NewRequest(http.MethodGet, "/api/v1/en/profiles/", nil), "lang", "en")
	assert.Equal(t, lang.EN, Lang(req))

	req = withParams(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, lang.RU, Lang(req))
}

func TestPager(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    int
		wantErr bool
	}{
		{name: "default page", target: "/api/v1/ru/profiles/", want: 1},
		{name: "explicit page", target: "/api/v1/ru/profiles/?page=3", want: 3},
		{name: "zero page", target: "/api/v1/ru/profiles/?page=0", wantErr: true},
		{name: "not a number", target: "/api/v1/ru/profiles/?page=last", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)

			p, err := Pager(req, 10)

			if tt.wantErr {
				assert.True(t, errors.Is(err, apperr.ErrNotFound))
				assert.Equal(t, "Invalid page.", apperr.Message(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Number)
			assert.Equal(t, 10, p.Size)
			assert.Equal(t, "http://example.com"+tt.target, p.URL)
		})
	}
}

func TestID(t *testing.T) {
	id := uuid.New()
	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())

	got, err := ID(req, "id", "missing")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req = withParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42")
	_, err = ID(req, "id", "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "missing", apperr.Message(err))
}

func TestQuery(t *testing.T) {
	id := uuid.New()

	t.Run("valid filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/?id="+id.String()+"&submissions_count_gte=2&status=DONE&ordering=-id", nil)
		q := NewQuery(req)

		gotID := q.UUID("id")
		count := q.Count("submissions_count")
		status := Enum(q, "status", models.TaskStatus.Valid)

		require.NoError(t, q.Err())
		assert.Equal(t, id, *gotID)
		assert.Nil(t, count.Eq)
		assert.Equal(t, 2, *count.Gte)
		assert.Equal(t, models.TaskDone, *status)
		assert.Equal(t, "-id", q.Ordering())
	})

	t.Run("malformed filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?id=1&tasks_count=many&status=CLOSED", nil)
		q := NewQuery(req)

		q.UUID("id")
		q.Count("tasks_count")
		Enum(q, "status", models.TaskStatus.Valid)

		var verr *apperr.ValidationError
		require.True(t, errors.As(q.Err(), &verr))
		assert.Len(t, verr.Fields, 3)
		assert.Contains(t, verr.Fields, "tasks_count")
	})
}

func TestDecode(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"ACCEPTED","admin_comment":"ok"}`))
		var in models.ReviewInput

		require.NoError(t, Decode(req, &in))
		assert.Equal(t, "ACCEPTED", in.Status)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"DONE"}`))
		var in models.ReviewInput

		err := Decode(req, &in)

		var verr *apperr.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "This field is required.", verr.Fields["admin_comment"])
		assert.Equal(t, `"DONE" is not a valid choice.`, verr.Fields["status"])
	})

	t.Run("broken json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		var in models.ReviewInput

		assert.True(t, errors.Is(Decode(req, &in), apperr.ErrValidation))
	})
}

func TestProfileInput(t *testing.T) {
	t.Run("multipart with files", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("description_ru", "Описание"))
		fw, err := mw.CreateFormFile(UploadedFiles, "brief.pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		in, err := ProfileInput(req)

		require.NoError(t, err)
		assert.Equal(t, "Описание", *in.DescriptionRU)
		assert.Nil(t, in.DescriptionEN)
		assert.True(t, in.ReplaceFiles)
		require.Len(t, in.Files, 1)
		assert.Equal(t, "brief.pdf", in.Files[0].Name)
		assert.Equal(t, int64(8), in.Files[0].Size)
	})

	t.Run("json keeps files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"description_en":"Backend"}`))
		req.Header.Set("Content-Type", "application/json")

		in, err := ProfileInput(req)

		require.NoError(t, err)
		assert.Equal(t, "Backend", *in.DescriptionEN)
		assert.False(t, in.ReplaceFiles)
		assert.Empty(t, in.Files)
	})
}

func TestTaskFilter(t *testing.T) {
	profileID := uuid.New()
	req := httptest.NewRequest(http.MethodGet,
		"/?profile_id="+profileID.String()+"&title=api&type=FREE&submissions_count_lte=5&ordering=title_en", nil)

	f, err := TaskFilter(req)

	require.NoError(t, err)
	assert.Equal(t, profileID, *f.ProfileID)
	assert.Equal(t, "api", f.Title)
	assert.Equal(t, models.TaskFree, *f.Type)
	assert.Nil(t, f.Status)
	assert.Equal(t, 5, *f.SubmissionsCount.Lte)
	assert.Equal(t, "title_en", f.Ordering)

	_, err = TaskFilter(httptest.NewRequest(http.MethodGet, "/?type=ANY", nil))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
