package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shareit/config"
	"shareit/infras/otel/mocks"
	itemMocks "shareit/internal/domains/item/mocks"
	itemModel "shareit/internal/domains/item/model"
	requestMocks "shareit/internal/domains/request/mocks"
	"shareit/internal/domains/request/model"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/service"
	userMocks "shareit/internal/domains/user/mocks"
	"shareit/shared/cache"
	cacheMocks "shareit/shared/cache/mocks"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
)

type deps struct {
	requests *requestMocks.MockItemRequest
	users    *userMocks.MockUser
	items    *itemMocks.MockItem
}

func newService(t *testing.T, cfg *config.Config, redisCache cache.RedisCache) (service.Request, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := deps{
		requests: requestMocks.NewMockItemRequest(ctrl),
		users:    userMocks.NewMockUser(ctrl),
		items:    itemMocks.NewMockItem(ctrl),
	}

	if redisCache == nil {
		redisCache = cacheMocks.NewMockRedisCache(ctrl)
	}

	return service.New(d.requests, d.users, d.items, cfg, redisCache, mocks.NewOtel()), d
}

func strPtr(s string) *string {
	return &s
}

func TestRequestService_Create(t *testing.T) {
	t.Run("defaults created to now", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.requests.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		before := time.Now()

		res, err := svc.Create(context.Background(), dto.CreateRequestRequest{Description: "Need a <b>ladder</b>"}, "u1")
		require.NoError(t, err)

		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "Need a ladder", res.Description)
		assert.Equal(t, "u1", res.RequesterID)
		assert.False(t, res.Created.Before(before.Add(-time.Second)))
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("keeps supplied created", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.requests.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, request model.ItemRequest) error {
				assert.True(t, request.Created.Equal(created))

				return nil
			})

		_, err := svc.Create(context.Background(), dto.CreateRequestRequest{
			Description: "Need a ladder",
			Created:     &gDto.DateTime{Time: created},
		}, "u1")
		assert.NoError(t, err)
	})

	t.Run("missing requester", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(context.Background(), dto.CreateRequestRequest{Description: "Need a ladder"}, "u9")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "User with id u9 not found")
	})
}

func TestRequestService_FindByUser(t *testing.T) {
	svc, d := newService(t, &config.Config{}, nil)

	newer := model.ItemRequest{ID: "r2", Description: "Saw", RequesterID: "u1", Created: time.Now()}
	older := model.ItemRequest{ID: "r1", Description: "Drill", RequesterID: "u1", Created: time.Now().Add(-time.Hour)}

	d.requests.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.ItemRequest, error) {
			assert.Equal(t, "item_requests.created", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.ItemRequest{newer, older}, nil
		})
	d.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]itemModel.Item{
		{ID: "i1", Name: "Drill", OwnerID: "u2", Available: true, RequestID: strPtr("r1")},
	}, nil)

	res, err := svc.FindByUser(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, "r2", res[0].ID)
	assert.Empty(t, res[0].Items)
	require.Len(t, res[1].Items, 1)
	assert.Equal(t, "i1", res[1].Items[0].ID)
	assert.Equal(t, "r1", res[1].Items[0].RequestID)
}

func TestRequestService_GetAllExceptUser(t *testing.T) {
	svc, d := newService(t, &config.Config{}, nil)

	d.requests.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.ItemRequest, error) {
			where, args := filter.GetWhereClause()

			assert.Equal(t, "(item_requests.requester_id != :requester_id)", where)
			assert.Equal(t, "u1", args["requester_id"])
			assert.Equal(t, 5, params.Limit)

			return []model.ItemRequest{}, nil
		})

	res, err := svc.GetAllExceptUser(context.Background(), "u1", gDto.QueryParams{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRequestService_Get(t *testing.T) {
	t.Run("blank id", func(t *testing.T) {
		svc, _ := newService(t, &config.Config{}, nil)

		_, err := svc.Get(context.Background(), "")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.requests.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ItemRequest{}, nil)

		_, err := svc.Get(context.Background(), "r9")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "Request with id r9 not found")
	})

	t.Run("found with items", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.requests.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ItemRequest{ID: "r1", Description: "Drill", RequesterID: "u1"}, nil)
		d.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]itemModel.Item{{ID: "i1", RequestID: strPtr("r1")}}, nil)

		res, err := svc.Get(context.Background(), "r1")
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.requests.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ItemRequest{}, errors.New("database error"))

		_, err := svc.Get(context.Background(), "r1")
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRequestService_Update(t *testing.T) {
	existing := model.ItemRequest{ID: "r1", Description: "Drill", RequesterID: "u1", Created: time.Now()}

	t.Run("partial update", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.requests.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		d.requests.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, model.FieldDescription)
				assert.NotContains(t, fields, model.FieldCreated)

				return nil
			})
		d.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]itemModel.Item{}, nil)

		res, err := svc.Update(context.Background(), dto.UpdateRequestRequest{Description: strPtr("Cordless drill")}, "u1", "r1")
		require.NoError(t, err)

		assert.Equal(t, "Cordless drill", res.Description)
		assert.True(t, res.Created.Equal(existing.Created))
	})

	t.Run("request of another user", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.requests.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ItemRequest{}, nil)

		_, err := svc.Update(context.Background(), dto.UpdateRequestRequest{Description: strPtr("x")}, "u2", "r1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("missing user", func(t *testing.T) {
		svc, d := newService(t, &config.Config{}, nil)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Update(context.Background(), dto.UpdateRequestRequest{Description: strPtr("x")}, "u9", "r1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRequestService_Delete(t *testing.T) {
	svc, d := newService(t, &config.Config{}, nil)

	d.requests.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) error {
			_, args := filter.GetWhereClause()

			assert.Equal(t, "r1", args["id"])
			assert.Equal(t, "u1", args["requester_id"])

			return nil
		})

	assert.NoError(t, svc.Delete(context.Background(), "u1", "r1"))
}

func TestRequestService_GetCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	svc, d := newService(t, cfg, cache.NewRedisCache(client, mocks.NewOtel()))

	d.requests.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ItemRequest{ID: "r1", Description: "Drill", RequesterID: "u1"}, nil).Times(1)
	d.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]itemModel.Item{}, nil).Times(1)

	_, err := svc.Get(context.Background(), "r1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return server.Exists("request:get:r1")
	}, time.Second, 10*time.Millisecond)

	res, err := svc.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Drill", res.Description)

	d.requests.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), "u1", "r1"))
	assert.False(t, server.Exists("request:get:r1"))
}
