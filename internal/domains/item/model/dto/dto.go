package dto

import (
	bookingModel "shareit/internal/domains/booking/model"
	"shareit/internal/domains/item/model"
	gDto "shareit/shared/dto"
	gModel "shareit/shared/model"
	"shareit/shared/sanitizer"
	"shareit/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateItemRequest leaves Available unchecked so that the service can
// report a missing flag with its own message.
type CreateItemRequest struct {
	Name        string  `json:"name"        validate:"required,notblank,max=255"`
	Description string  `json:"description" validate:"required,notblank,max=2000"`
	Available   *bool   `json:"available"`
	RequestID   *string `json:"request_id"  validate:"omitempty,notblank,max=36"`
}

func (c *CreateItemRequest) ToModel(ownerID string) model.Item {
	now := timezone.Now().UTC()

	item := model.Item{
		ID:          uuid.NewString(),
		Name:        sanitizer.Text(c.Name),
		Description: sanitizer.Text(c.Description),
		OwnerID:     ownerID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  ownerID,
			ModifiedBy: ownerID,
		},
	}

	if c.Available != nil {
		item.Available = *c.Available
	}

	if c.RequestID != nil && strings.TrimSpace(*c.RequestID) != "" {
		requestID := strings.TrimSpace(*c.RequestID)
		item.RequestID = &requestID
	}

	return item
}

type UpdateItemRequest struct {
	Name        *string `json:"name"        validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,notblank,max=2000"`
	Available   *bool   `json:"available"`
}

// Fields returns the columns to change. Nil fields are skipped by shared.TransformFields.
func (u *UpdateItemRequest) Fields() UpdateItemFields {
	return UpdateItemFields{
		Name:        sanitizer.Ptr(u.Name),
		Description: sanitizer.Ptr(u.Description),
		Available:   u.Available,
	}
}

type UpdateItemFields struct {
	Name        *string `db:"name"`
	Description *string `db:"description"`
	Available   *bool   `db:"available"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}

func (c *CommentRequest) ToModel(itemID, authorID, authorName string) model.Comment {
	now := timezone.Now().UTC()

	return model.Comment{
		ID:         uuid.NewString(),
		Text:       sanitizer.Text(c.Text),
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Created:    now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  authorID,
			ModifiedBy: authorID,
		},
	}
}

type CommentResponse struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	AuthorName string        `json:"author_name"`
	Created    gDto.DateTime `json:"created"`
}

func (r *CommentResponse) FromModel(comment model.Comment) {
	r.ID = comment.ID
	r.Text = comment.Text
	r.AuthorName = comment.AuthorName
	r.Created = gDto.NewDateTime(comment.Created)
}

func CommentsFromModels(comments []model.Comment) []CommentResponse {
	res := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		res[i].FromModel(comment)
	}

	return res
}

type BookingShort struct {
	ID       string        `json:"id"`
	BookerID string        `json:"booker_id"`
	Start    gDto.DateTime `json:"start"`
	End      gDto.DateTime `json:"end"`
}

func NewBookingShort(booking bookingModel.Booking) *BookingShort {
	return &BookingShort{
		ID:       booking.ID,
		BookerID: booking.BookerID,
		Start:    gDto.NewDateTime(booking.Start),
		End:      gDto.NewDateTime(booking.End),
	}
}

func bookingShortFromColumns(id *string, bookerID *string, start, end *time.Time) *BookingShort {
	if id == nil || bookerID == nil || start == nil || end == nil {
		return nil
	}

	return &BookingShort{
		ID:       *id,
		BookerID: *bookerID,
		Start:    gDto.NewDateTime(*start),
		End:      gDto.NewDateTime(*end),
	}
}

type ItemResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	OwnerID     string            `json:"owner_id"`
	RequestID   *string           `json:"request_id"`
	LastBooking *BookingShort     `json:"last_booking"`
	NextBooking *BookingShort     `json:"next_booking"`
	Comments    []CommentResponse `json:"comments"`
}

// FromModel copies the persisted booking summary. Comments start empty.
func (r *ItemResponse) FromModel(item model.Item) {
	r.ID = item.ID
	r.Name = item.Name
	r.Description = item.Description
	r.Available = item.Available
	r.OwnerID = item.OwnerID
	r.RequestID = item.RequestID
	r.LastBooking = bookingShortFromColumns(item.LastBookingID, item.LastBookingBookerID, item.LastBookingStart, item.LastBookingEnd)
	r.NextBooking = bookingShortFromColumns(item.NextBookingID, item.NextBookingBookerID, item.NextBookingStart, item.NextBookingEnd)
	r.Comments = []CommentResponse{}
}

func FromModels(items []model.Item) []ItemResponse {
	res := make([]ItemResponse, len(items))
	for i, item := range items {
		res[i].FromModel(item)
	}

	return res
}
