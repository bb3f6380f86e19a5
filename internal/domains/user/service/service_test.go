package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shareit/config"
	"shareit/infras/otel/mocks"
	userMocks "shareit/internal/domains/user/mocks"
	"shareit/internal/domains/user/model"
	"shareit/internal/domains/user/model/dto"
	"shareit/internal/domains/user/service"
	"shareit/shared/cache"
	cacheMocks "shareit/shared/cache/mocks"
	"shareit/shared/failure"
)

func newService(t *testing.T) (service.User, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	return service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel()), mockRepo
}

func strPtr(s string) *string {
	return &s
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateUserRequest
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  dto.CreateUserRequest{Name: "Ann", Email: "ann@example.com"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "blank email",
			req:       dto.CreateUserRequest{Name: "Ann", Email: "   "},
			setupMock: func(_ *userMocks.MockUser) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "email already registered",
			req:  dto.CreateUserRequest{Name: "Ann", Email: "ann@example.com"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unique constraint lost race",
			req:  dto.CreateUserRequest{Name: "Ann", Email: "ann@example.com"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  dto.CreateUserRequest{Name: "Ann", Email: "ann@example.com"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "ann@example.com", res.Email)
		})
	}
}

func TestUserService_CreateDuplicateMessage(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{Name: "Ann", Email: "ann@example.com"})

	assert.EqualError(t, err, "Email already in use by another user")
}

func TestUserService_Update(t *testing.T) {
	existing := model.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Contains(t, fields, model.FieldName)
				assert.NotContains(t, fields, model.FieldEmail)

				return nil
			})

		res, err := svc.Update(context.Background(), "u1", dto.UpdateUserRequest{Name: strPtr(" Anna ")})
		require.NoError(t, err)

		assert.Equal(t, "Anna", res.Name)
		assert.Equal(t, "ann@example.com", res.Email)
	})

	t.Run("same email skips uniqueness check", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Update(context.Background(), "u1", dto.UpdateUserRequest{Email: strPtr("ann@example.com")})
		assert.NoError(t, err)
	})

	t.Run("changed email already taken", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Update(context.Background(), "u1", dto.UpdateUserRequest{Email: strPtr("bob@example.com")})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("blank email", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)

		_, err := svc.Update(context.Background(), "u1", dto.UpdateUserRequest{Email: strPtr("")})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Update(context.Background(), "u9", dto.UpdateUserRequest{Name: strPtr("Bob")})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "User with id u9 not found")
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1"}, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), "u1"))
	})

	t.Run("missing user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		err := svc.Delete(context.Background(), "u1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("blank id", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Get(context.Background(), " ")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}, nil)

		res, err := svc.Get(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, dto.UserResponse{ID: "u1", Name: "Ann", Email: "ann@example.com"}, res)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("database error"))

		_, err := svc.Get(context.Background(), "u1")
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestUserService_GetAll(t *testing.T) {
	svc, repo := newService(t)

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.User{
		{ID: "u1", Name: "Ann", Email: "ann@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	}, nil)

	res, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "u2", res[1].ID)
}

func TestUserService_ReadThroughCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	svc := service.New(repo, cfg, redisCache, mocks.NewOtel())

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}, nil).Times(1)

	first, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return server.Exists("user:get:u1")
	}, time.Second, 10*time.Millisecond)

	second, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1"}, nil)
	repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.False(t, server.Exists("user:get:u1"))
}
