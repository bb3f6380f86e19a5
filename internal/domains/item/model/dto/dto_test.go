package dto_test

import (
	bookingModel "shareit/internal/domains/booking/model"
	"shareit/internal/domains/item/model"
	"shareit/internal/domains/item/model/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemRequest_ToModel(t *testing.T) {
	available := true
	requestID := "  req-1 "

	req := dto.CreateItemRequest{
		Name:        "<b>Drill</b>",
		Description: "Cordless <script>alert(1)</script>drill",
		Available:   &available,
		RequestID:   &requestID,
	}

	item := req.ToModel("owner-1")

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Drill", item.Name)
	assert.Equal(t, "Cordless drill", item.Description)
	assert.True(t, item.Available)
	assert.Equal(t, "owner-1", item.OwnerID)
	require.NotNil(t, item.RequestID)
	assert.Equal(t, "req-1", *item.RequestID)
	assert.Equal(t, "owner-1", item.CreatedBy)
}

func TestCreateItemRequest_ToModelBlankRequest(t *testing.T) {
	blank := " "
	req := dto.CreateItemRequest{Name: "Saw", Description: "Hand saw", RequestID: &blank}

	item := req.ToModel("owner-1")

	assert.Nil(t, item.RequestID)
	assert.False(t, item.Available)
}

func TestUpdateItemRequest_Fields(t *testing.T) {
	name := " <i>Ladder</i> "
	req := dto.UpdateItemRequest{Name: &name}

	fields := req.Fields()

	require.NotNil(t, fields.Name)
	assert.Equal(t, "Ladder", *fields.Name)
	assert.Nil(t, fields.Description)
	assert.Nil(t, fields.Available)
}

func TestItemResponse_FromModel(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	lastID := "booking-1"
	bookerID := "booker-1"

	item := model.Item{
		ID:                  "item-1",
		Name:                "Drill",
		OwnerID:             "owner-1",
		Available:           true,
		LastBookingID:       &lastID,
		LastBookingBookerID: &bookerID,
		LastBookingStart:    &start,
		LastBookingEnd:      &end,
	}

	var res dto.ItemResponse
	res.FromModel(item)

	require.NotNil(t, res.LastBooking)
	assert.Equal(t, "booking-1", res.LastBooking.ID)
	assert.Equal(t, "booker-1", res.LastBooking.BookerID)
	assert.True(t, res.LastBooking.Start.Equal(start))
	assert.Nil(t, res.NextBooking)
	assert.NotNil(t, res.Comments)
	assert.Empty(t, res.Comments)
}

func TestNewBookingShort(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	short := dto.NewBookingShort(bookingModel.Booking{ID: "b", BookerID: "u", Start: start, End: start.Add(time.Hour)})

	assert.Equal(t, "b", short.ID)
	assert.Equal(t, "u", short.BookerID)
	assert.True(t, short.End.Equal(start.Add(time.Hour)))
}

func TestCommentRequest_ToModel(t *testing.T) {
	req := dto.CommentRequest{Text: "Great <b>tool</b>"}

	comment := req.ToModel("item-1", "author-1", "Ann")

	var res dto.CommentResponse
	res.FromModel(comment)

	assert.Equal(t, "Great tool", res.Text)
	assert.Equal(t, "Ann", res.AuthorName)
	assert.False(t, res.Created.IsZero())
}
