package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/task-platform/internal/migrations"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))
	require.NoError(t, CheckDatabaseReady(storage))

	return storage, func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// TestDataFactory создает тестовые записи напрямую через SQL.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateUser(t *testing.T, username string) uuid.UUID {
	id := uuid.New()
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, 'hash')`,
		id, username, username+"@example.com")
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CreateProfile(t *testing.T, descriptionEN string) uuid.UUID {
	id, err := f.storage.CreateProfile(context.Background(), models.Profile{
		ID: uuid.New(), DescriptionRU: "описание", DescriptionEN: descriptionEN,
	}, nil)
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CreateTask(t *testing.T, profileID uuid.UUID, titleEN string, status models.TaskStatus) uuid.UUID {
	id, err := f.storage.CreateTask(context.Background(), models.Task{
		ID: uuid.New(), ProfileID: profileID, TitleRU: "задание " + titleEN, TitleEN: titleEN,
		Status: status, Type: models.TaskFree,
	})
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) LinkUser(t *testing.T, userID, profileID uuid.UUID) {
	require.NoError(t, f.storage.AddUserProfile(context.Background(), userID, profileID))
}

func (f *TestDataFactory) CreateSubmission(t *testing.T, userID, taskID uuid.UUID) uuid.UUID {
	now := time.Now().UTC()
	sub := models.Submission{
		ID: uuid.New(), TaskID: taskID, UserID: userID, Comment: "answer",
		Status: models.SubmissionWaiting, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.storage.CreateSubmission(context.Background(), sub))
	return sub.ID
}
