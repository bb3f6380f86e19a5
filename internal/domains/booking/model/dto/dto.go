package dto

import (
	"shareit/internal/domains/booking/model"
	gDto "shareit/shared/dto"
	gModel "shareit/shared/model"
	"shareit/shared/timezone"

	"github.com/google/uuid"
)

// CreateBookingRequest keeps both ends optional so that the service can
// reject a missing window with its own message.
type CreateBookingRequest struct {
	ItemID string         `json:"item_id" validate:"required,notblank,max=36"`
	Start  *gDto.DateTime `json:"start"`
	End    *gDto.DateTime `json:"end"`
}

func (c *CreateBookingRequest) ToModel(bookerID string) model.Booking {
	now := timezone.Now().UTC()

	return model.Booking{
		ID:       uuid.NewString(),
		Start:    c.Start.UTC(),
		End:      c.End.UTC(),
		ItemID:   c.ItemID,
		BookerID: bookerID,
		Status:   model.StatusWaiting,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  bookerID,
			ModifiedBy: bookerID,
		},
	}
}

type Booker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     string        `json:"id"`
	Start  gDto.DateTime `json:"start"`
	End    gDto.DateTime `json:"end"`
	Status string        `json:"status"`
	Booker Booker        `json:"booker"`
	Item   Item          `json:"item"`
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Start = gDto.NewDateTime(booking.Start)
	r.End = gDto.NewDateTime(booking.End)
	r.Status = booking.Status
	r.Booker = Booker{
		ID:    booking.BookerID,
		Name:  booking.BookerName,
		Email: booking.BookerEmail,
	}
	r.Item = Item{
		ID:   booking.ItemID,
		Name: booking.ItemName,
	}
}

func FromModels(bookings []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromModel(booking)
	}

	return res
}

// Event is published whenever a booking enters a status.
type Event struct {
	Type       string        `json:"type"`
	BookingID  string        `json:"booking_id"`
	ItemID     string        `json:"item_id"`
	BookerID   string        `json:"booker_id"`
	OwnerID    string        `json:"owner_id"`
	Status     string        `json:"status"`
	Start      gDto.DateTime `json:"start"`
	End        gDto.DateTime `json:"end"`
	OccurredAt gDto.DateTime `json:"occurred_at"`
}

func NewEvent(eventType string, booking model.Booking) Event {
	return Event{
		Type:       eventType,
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		BookerID:   booking.BookerID,
		OwnerID:    booking.ItemOwnerID,
		Status:     booking.Status,
		Start:      gDto.NewDateTime(booking.Start),
		End:        gDto.NewDateTime(booking.End),
		OccurredAt: gDto.NewDateTime(timezone.Now()),
	}
}
