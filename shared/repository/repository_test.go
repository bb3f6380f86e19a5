package repository_test

import (
	"context"
	"shareit/infras/otel/mocks"
	"shareit/shared"
	gDto "shareit/shared/dto"
	gModel "shareit/shared/model"
	"shareit/shared/repository"
	"shareit/shared/testdb"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	gModel.Metadata
}

type listing struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Available   bool    `db:"available"`
	OwnerID     string  `db:"owner_id"`
	RequestID   *string `db:"request_id"`
	OwnerName   string  `db:"owner_name" table:"users" column:"name"`
	gModel.Metadata
}

func (listing) GetJoinQuery() string {
	return "JOIN users ON users.id = items.owner_id"
}

func metadata() gModel.Metadata {
	now := time.Now().UTC().Truncate(time.Second)

	return gModel.Metadata{CreatedAt: now, ModifiedAt: now}
}

func seed(t *testing.T) (repository.Repository[account], repository.Repository[listing]) {
	t.Helper()

	conn := testdb.New(t)
	accounts := repository.NewRepository[account]("user", "users", conn, mocks.NewOtel())
	listings := repository.NewRepository[listing]("item", "items", conn, mocks.NewOtel())

	ctx := context.Background()

	for _, acc := range []account{
		{ID: "u1", Name: "Ann", Email: "ann@example.com", Metadata: metadata()},
		{ID: "u2", Name: "Bob", Email: "bob@example.com", Metadata: metadata()},
	} {
		require.NoError(t, accounts.Insert(ctx, acc))
	}

	for _, item := range []listing{
		{ID: "i1", Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: "u1", Metadata: metadata()},
		{ID: "i2", Name: "Saw", Description: "Hand saw", Available: false, OwnerID: "u1", Metadata: metadata()},
		{ID: "i3", Name: "Tent", Description: "Two person tent", Available: true, OwnerID: "u2", Metadata: metadata()},
	} {
		require.NoError(t, listings.Insert(ctx, item))
	}

	return accounts, listings
}

func TestRepository_InsertColumnsSkipJoinedFields(t *testing.T) {
	_, listings := seed(t)

	assert.NotContains(t, listings.InsertColumns, "owner_name")
	assert.Contains(t, listings.InsertColumns, "created_at")
	assert.Contains(t, listings.InsertColumns, "owner_id")
}

func TestRepository_GetWithJoin(t *testing.T) {
	_, listings := seed(t)

	got, err := listings.Get(context.Background(), shared.FilterByID("i3", "id", "items"))
	require.NoError(t, err)

	assert.Equal(t, "Tent", got.Name)
	assert.Equal(t, "Bob", got.OwnerName)
	assert.Nil(t, got.RequestID)
}

func TestRepository_GetMissingReturnsZero(t *testing.T) {
	accounts, _ := seed(t)

	got, err := accounts.Get(context.Background(), shared.FilterByID("nope", "id", "users"))
	require.NoError(t, err)
	assert.Empty(t, got.ID)
}

func TestRepository_GetAllPaging(t *testing.T) {
	_, listings := seed(t)
	ctx := context.Background()

	all, err := listings.GetAll(ctx, gDto.QueryParams{}.Sorted("items.name", gDto.SortDirAsc), gDto.FilterGroup{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Drill", "Saw", "Tent"}, []string{all[0].Name, all[1].Name, all[2].Name})

	page, err := listings.GetAll(ctx, gDto.QueryParams{Offset: 1, Limit: 1}.Sorted("items.name", gDto.SortDirAsc), gDto.FilterGroup{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Saw", page[0].Name)

	none, err := listings.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID("missing", "owner_id", "items"))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepository_GetAllLikeFilter(t *testing.T) {
	_, listings := seed(t)

	filter := shared.FilterAll(
		gDto.Filter{Field: "available", Value: true, Operator: gDto.FilterOperatorEq, Table: "items"},
		gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: "name", Value: "DRILL", Operator: gDto.FilterOperatorLike, Table: "items"},
				gDto.Filter{Field: "description", Value: "DRILL", Operator: gDto.FilterOperatorLike, Table: "items"},
			},
		},
	)

	got, err := listings.GetAll(context.Background(), gDto.QueryParams{}, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "i1", got[0].ID)
}

func TestRepository_GetAllLikeMatchesWildcardsLiterally(t *testing.T) {
	_, listings := seed(t)
	ctx := context.Background()

	require.NoError(t, listings.Insert(ctx, listing{
		ID: "i4", Name: "100% cotton bag", Description: "tote_bag", Available: true, OwnerID: "u2", Metadata: metadata(),
	}))

	search := func(text string) []string {
		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: "name", ArgName: "text_name", Value: text, Operator: gDto.FilterOperatorLike, Table: "items"},
				gDto.Filter{Field: "description", ArgName: "text_description", Value: text, Operator: gDto.FilterOperatorLike, Table: "items"},
			},
		}

		got, err := listings.GetAll(ctx, gDto.QueryParams{}, filter)
		require.NoError(t, err)

		ids := make([]string, len(got))
		for i, item := range got {
			ids[i] = item.ID
		}

		return ids
	}

	assert.Equal(t, []string{"i4"}, search("%"))
	assert.Equal(t, []string{"i4"}, search("_"))
	assert.Equal(t, []string{"i4"}, search("0% C"))
	assert.Empty(t, search(`\`))
	assert.Empty(t, search("d_ill"))
}

func TestRepository_Exist(t *testing.T) {
	accounts, listings := seed(t)
	ctx := context.Background()

	exist, err := accounts.Exist(ctx, shared.FilterByID("bob@example.com", "email", "users"))
	require.NoError(t, err)
	assert.True(t, exist)

	exist, err = accounts.Exist(ctx, shared.FilterByID("eve@example.com", "email", "users"))
	require.NoError(t, err)
	assert.False(t, exist)

	_, err = accounts.Exist(ctx, gDto.FilterGroup{})
	assert.Error(t, err)

	exist, err = listings.Exist(ctx, shared.FilterByID("u1", "owner_id", "items"))
	require.NoError(t, err)
	assert.True(t, exist)
}

func TestRepository_UpdateAffected(t *testing.T) {
	_, listings := seed(t)
	ctx := context.Background()

	guarded := shared.FilterAll(
		gDto.Filter{Field: "id", Value: "i2", Operator: gDto.FilterOperatorEq, Table: "items"},
		gDto.Filter{Field: "available", Value: false, Operator: gDto.FilterOperatorEq, Table: "items"},
	)

	affected, err := listings.UpdateAffected(ctx, map[string]any{"available": true}, guarded)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = listings.UpdateAffected(ctx, map[string]any{"available": true}, guarded)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	got, err := listings.Get(ctx, shared.FilterByID("i2", "id", "items"))
	require.NoError(t, err)
	assert.True(t, got.Available)

	err = listings.Update(ctx, map[string]any{"name": "Bow saw"}, gDto.FilterGroup{})
	assert.Error(t, err)
}

func TestRepository_Delete(t *testing.T) {
	_, listings := seed(t)
	ctx := context.Background()

	require.NoError(t, listings.Delete(ctx, shared.FilterAll(
		gDto.Filter{Field: "id", Value: "i3", Operator: gDto.FilterOperatorEq, Table: "items"},
		gDto.Filter{Field: "owner_id", Value: "u1", Operator: gDto.FilterOperatorEq, Table: "items"},
	)))

	all, err := listings.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, listings.Delete(ctx, shared.FilterByID("i3", "id", "items")))

	all, err = listings.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
