package model

import (
	"shareit/shared/model"
	"time"
)

const (
	TableName  = "items"
	EntityName = "item"

	FieldID            = "id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldAvailable     = "available"
	FieldOwnerID       = "owner_id"
	FieldRequestID     = "request_id"
	FieldLastBookingID = "last_booking_id"
	FieldNextBookingID = "next_booking_id"
)

// Item carries the booking summary persisted on the row. The last/next booking
// columns are filled from LEFT JOINs and stay nil when no booking is referenced.
type Item struct {
	ID                  string     `db:"id"`
	Name                string     `db:"name"`
	Description         string     `db:"description"`
	Available           bool       `db:"available"`
	OwnerID             string     `db:"owner_id"`
	RequestID           *string    `db:"request_id"`
	LastBookingID       *string    `db:"last_booking_id"`
	NextBookingID       *string    `db:"next_booking_id"`
	LastBookingStart    *time.Time `db:"last_booking_start"     table:"last_booking" column:"start_time"`
	LastBookingEnd      *time.Time `db:"last_booking_end"       table:"last_booking" column:"end_time"`
	LastBookingBookerID *string    `db:"last_booking_booker_id" table:"last_booking" column:"booker_id"`
	NextBookingStart    *time.Time `db:"next_booking_start"     table:"next_booking" column:"start_time"`
	NextBookingEnd      *time.Time `db:"next_booking_end"       table:"next_booking" column:"end_time"`
	NextBookingBookerID *string    `db:"next_booking_booker_id" table:"next_booking" column:"booker_id"`
	model.Metadata
}

func (Item) GetJoinQuery() string {
	return "LEFT JOIN bookings AS last_booking ON last_booking.id = items.last_booking_id " +
		"LEFT JOIN bookings AS next_booking ON next_booking.id = items.next_booking_id"
}
