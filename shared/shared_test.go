package shared_test

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"shareit/shared"
	cacheMocks "shareit/shared/cache/mocks"
	"shareit/shared/constant"
	"shareit/shared/dto"
	"shareit/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "valid true string", input: "true", expected: boolPtr(true)},
		{name: "valid false string", input: "false", expected: boolPtr(false)},
		{name: "valid TRUE string", input: "TRUE", expected: boolPtr(true)},
		{name: "valid 0 string", input: "0", expected: boolPtr(false)},
		{name: "invalid string returns nil", input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				assert.Nil(t, result)

				return
			}

			if assert.NotNil(t, result) {
				assert.Equal(t, *tt.expected, *result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		Name        *string `db:"name"`
		Description *string `db:"description"`
		Available   *bool   `db:"available"`
		NoDBTag     string
	}

	name := "Cordless drill"
	available := false

	tests := []struct {
		name     string
		data     interface{}
		username string
		expected map[string]any
	}{
		{
			name:     "only provided fields are kept",
			data:     updateRequest{Name: &name, Available: &available, NoDBTag: "ignored"},
			username: "owner-1",
			expected: map[string]any{
				"name":      &name,
				"available": &available,
			},
		},
		{
			name:     "nothing provided",
			data:     updateRequest{},
			username: "owner-2",
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, tt.username)

			assert.Equal(t, tt.username, result[constant.FieldModifiedBy])
			modifiedAt, ok := result[constant.FieldModifiedAt].(time.Time)
			assert.True(t, ok, "expected modified_at to be a time.Time")
			assert.Equal(t, time.UTC, modifiedAt.Location())

			for key, expectedValue := range tt.expected {
				actualValue, exists := result[key]
				if !exists {
					t.Errorf("expected field %s to exist", key)

					continue
				}

				if !reflect.DeepEqual(actualValue, expectedValue) {
					t.Errorf("expected field %s to be %v, got %v", key, expectedValue, actualValue)
				}
			}

			for key := range result {
				if key == constant.FieldModifiedAt || key == constant.FieldModifiedBy {
					continue
				}

				if _, expected := tt.expected[key]; !expected {
					t.Errorf("unexpected field %s in result", key)
				}
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("550e8400-e29b-41d4-a716-446655440000", "id", "items")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "550e8400-e29b-41d4-a716-446655440000",
				Operator: dto.FilterOperatorEq,
				Table:    "items",
			},
		},
	}

	assert.Equal(t, expected, result)
}

func TestFilterAll(t *testing.T) {
	group := shared.FilterAll(
		dto.Filter{Field: "id", Table: "items", Operator: dto.FilterOperatorEq, Value: "i1"},
		dto.Filter{Field: "owner_id", Table: "items", Operator: dto.FilterOperatorEq, Value: "u1"},
	)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(items.id = :id AND items.owner_id = :owner_id)", where)
	assert.Equal(t, map[string]any{"id": "i1", "owner_id": "u1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "user:get:42", shared.BuildCacheKey("user:get", "42"))
	assert.Equal(t, "limiter", shared.BuildCacheKey("limiter"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Offset: 0, Limit: 10}
	filter := shared.FilterByID("u1", "requester_id", "item_requests")

	first := shared.BuildCacheKeyWithQuery("request:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("request:gets", params, filter)
	other := shared.BuildCacheKeyWithQuery("request:gets", params, shared.FilterByID("u2", "requester_id", "item_requests"))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Contains(t, first, "request:gets:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	t.Run("clears prefix pattern", func(t *testing.T) {
		mockCache.EXPECT().Clear(gomock.Any(), "user:gets*").Return(nil)

		shared.InvalidateCaches(context.Background(), mockCache, "user:gets")
	})

	t.Run("swallows cache errors", func(t *testing.T) {
		mockCache.EXPECT().Clear(gomock.Any(), "user:get*").Return(errors.New("redis down"))

		shared.InvalidateCaches(context.Background(), mockCache, "user:get")
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func TestUserIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "u1")

	userID, err := shared.UserIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = shared.UserIDFromContext(context.Background())
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.EqualError(t, err, "Header X-Sharer-User-Id is required")
}
