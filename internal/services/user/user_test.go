package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/lib/password"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListUsers(ctx context.Context, f models.UserFilter, p models.Pager) ([]models.User, int, error) {
	args := m.Called(ctx, f, p)
	users, _ := args.Get(0).([]models.User)
	return users, args.Int(1), args.Error(2)
}

func (m *RepoMock) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CreateUser(ctx context.Context, u models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *RepoMock) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *RepoMock) ProfileExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) UserHasProfile(ctx context.Context, userID, profileID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, profileID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) AddUserProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	return m.Called(ctx, userID, profileID).Error(0)
}

func (m *RepoMock) ListActionLogs(ctx context.Context, f models.ActionLogFilter, p models.Pager) ([]models.UserActionLog, int, error) {
	args := m.Called(ctx, f, p)
	logs, _ := args.Get(0).([]models.UserActionLog)
	return logs, args.Int(1), args.Error(2)
}

type RevokerMock struct{ mock.Mock }

func (m *RevokerMock) RevokeUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type InvalidatorMock struct{ mock.Mock }

func (m *InvalidatorMock) Users(ctx context.Context) { m.Called(ctx) }

type passCache struct{}

func (passCache) List(ctx context.Context, _ readcache.Kind, _ lang.Lang, _ int, _ any, load readcache.Loader) (json.RawMessage, error) {
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func newService() (*Service, *RepoMock, *RevokerMock, *InvalidatorMock) {
	repo, revoker, inv := new(RepoMock), new(RevokerMock), new(InvalidatorMock)
	inv.On("Users", mock.Anything).Return()
	return New(repo, revoker, passCache{}, inv, newNoopLogger()), repo, revoker, inv
}

func TestSetPassword(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		in         models.SetPasswordInput
		setupMocks func(r *RepoMock, rv *RevokerMock)
		wantKind   error
	}{
		{
			name: "changes hash and revokes tokens",
			in:   models.SetPasswordInput{UserID: userID.String(), NewPassword: "new-secret-1"},
			setupMocks: func(r *RepoMock, rv *RevokerMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil).Once()
				r.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
					return password.CompareHash(hash, "new-secret-1") == nil
				})).Return(nil).Once()
				rv.On("RevokeUserTokens", mock.Anything, userID).Return(int64(2), nil).Once()
			},
		},
		{
			name:       "short password",
			in:         models.SetPasswordInput{UserID: userID.String(), NewPassword: "short"},
			setupMocks: func(*RepoMock, *RevokerMock) {},
			wantKind:   apperr.ErrValidation,
		},
		{
			name: "unknown user",
			in:   models.SetPasswordInput{UserID: userID.String(), NewPassword: "long-enough"},
			setupMocks: func(r *RepoMock, _ *RevokerMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(nil, apperr.ErrNotFound).Once()
			},
			wantKind: apperr.ErrNotFound,
		},
		{
			name: "revocation failure surfaces",
			in:   models.SetPasswordInput{UserID: userID.String(), NewPassword: "long-enough"},
			setupMocks: func(r *RepoMock, rv *RevokerMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil).Once()
				r.On("UpdatePassword", mock.Anything, userID, mock.Anything).Return(nil).Once()
				rv.On("RevokeUserTokens", mock.Anything, userID).Return(int64(0), errors.New("auth down")).Once()
			},
			wantKind: errors.New("any"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, revoker, _ := newService()
			tt.setupMocks(repo, revoker)

			err := svc.SetPassword(context.Background(), tt.in)

			switch {
			case tt.wantKind == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantKind, apperr.ErrValidation), errors.Is(tt.wantKind, apperr.ErrNotFound):
				assert.True(t, errors.Is(err, tt.wantKind))
			default:
				assert.Error(t, err)
			}
			repo.AssertExpectations(t)
			revoker.AssertExpectations(t)
		})
	}
}

func TestSetPassword_ShortPasswordMessage(t *testing.T) {
	svc, repo, _, _ := newService()

	err := svc.SetPassword(context.Background(), models.SetPasswordInput{UserID: uuid.NewString(), NewPassword: "short"})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, password.TooShort, verr.Fields["new_password"])
	repo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestSetProfile(t *testing.T) {
	userID, profileID := uuid.New(), uuid.New()
	in := models.SetProfileInput{UserID: userID.String(), ProfileID: profileID.String()}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantKind   error
		wantMsg    string
	}{
		{
			name: "assigns profile",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil).Once()
				r.On("ProfileExists", mock.Anything, profileID).Return(true, nil).Once()
				r.On("UserHasProfile", mock.Anything, userID, profileID).Return(false, nil).Once()
				r.On("AddUserProfile", mock.Anything, userID, profileID).Return(nil).Once()
			},
		},
		{
			name: "already assigned",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil).Once()
				r.On("ProfileExists", mock.Anything, profileID).Return(true, nil).Once()
				r.On("UserHasProfile", mock.Anything, userID, profileID).Return(true, nil).Once()
			},
			wantKind: apperr.ErrConflict,
			wantMsg:  AlreadyAssigned,
		},
		{
			name: "concurrent assignment hits unique constraint",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil).Once()
				r.On("ProfileExists", mock.Anything, profileID).Return(true, nil).Once()
				r.On("UserHasProfile", mock.Anything, userID, profileID).Return(false, nil).Once()
				r.On("AddUserProfile", mock.Anything, userID, profileID).Return(&pgconn.PgError{Code: "23505"}).Once()
			},
			wantKind: apperr.ErrConflict,
			wantMsg:  AlreadyAssigned,
		},
		{
			name: "unknown profile",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil).Once()
				r.On("ProfileExists", mock.Anything, profileID).Return(false, nil).Once()
			},
			wantKind: apperr.ErrNotFound,
			wantMsg:  ProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, inv := newService()
			tt.setupMocks(repo)

			err := svc.SetProfile(context.Background(), in)

			if tt.wantKind == nil {
				require.NoError(t, err)
				inv.AssertCalled(t, "Users", mock.Anything)
			} else {
				assert.True(t, errors.Is(err, tt.wantKind))
				assert.Equal(t, tt.wantMsg, apperr.Message(err))
				inv.AssertNotCalled(t, "Users", mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCreate(t *testing.T) {
	svc, repo, _, inv := newService()
	profileID := uuid.New()
	repo.On("ProfileExists", mock.Anything, profileID).Return(true, nil).Once()
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "bob" && !u.IsStaff && password.CompareHash(u.PasswordHash, "password-1") == nil
	})).Return(nil).Once()

	got, err := svc.Create(context.Background(), models.CreateUserInput{
		Username: "bob", Email: "bob@example.com", Password: "password-1", Profiles: []uuid.UUID{profileID},
	})

	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, []uuid.UUID{profileID}, got.Profiles)
	inv.AssertCalled(t, "Users", mock.Anything)
	repo.AssertExpectations(t)
}

func TestCreate_Duplicate(t *testing.T) {
	svc, repo, _, _ := newService()
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23505"}).Once()

	_, err := svc.Create(context.Background(), models.CreateUserInput{
		Username: "bob", Email: "bob@example.com", Password: "password-1",
	})

	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestList(t *testing.T) {
	svc, repo, _, _ := newService()
	gte := 2
	f := models.UserFilter{ProfilesCount: models.CountFilter{Gte: &gte}, Ordering: "-username"}
	pager := models.Pager{Number: 1, Size: 10, URL: "http://localhost/api/v1/en/admin/users/"}
	repo.On("ListUsers", mock.Anything, f, pager).Return([]models.User{
		{ID: uuid.New(), Username: "zed", ProfilesCount: 3},
		{ID: uuid.New(), Username: "amy", ProfilesCount: 2},
	}, 2, nil).Once()

	data, err := svc.List(context.Background(), lang.EN, f, pager)
	require.NoError(t, err)

	var page struct {
		Count   int `json:"count"`
		Results []struct {
			Username      string `json:"username"`
			ProfilesCount int    `json:"profiles_count"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &page))
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, "zed", page.Results[0].Username)
}

func TestList_Empty(t *testing.T) {
	svc, repo, _, _ := newService()
	repo.On("ListUsers", mock.Anything, mock.Anything, mock.Anything).Return(nil, 0, nil).Once()

	_, err := svc.List(context.Background(), lang.RU, models.UserFilter{}, models.Pager{Number: 1, Size: 10})

	assert.Equal(t, NotFoundList, apperr.Message(err))
}
