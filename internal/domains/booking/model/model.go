package model

import (
	"shareit/shared/model"
	"strings"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldItemID    = "item_id"
	FieldBookerID  = "booker_id"
	FieldStatus    = "status"

	// Aliases used by the join in GetJoinQuery.
	TableItems     = "items"
	TableBooker    = "booker"
	FieldItemOwner = "owner_id"
)

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Phase places a booking on the timeline relative to a reference instant.
type Phase string

const (
	PhasePast    Phase = "PAST"
	PhaseCurrent Phase = "CURRENT"
	PhaseFuture  Phase = "FUTURE"
)

type Booking struct {
	ID          string    `db:"id"`
	Start       time.Time `db:"start_time"`
	End         time.Time `db:"end_time"`
	ItemID      string    `db:"item_id"`
	BookerID    string    `db:"booker_id"`
	Status      string    `db:"status"`
	ItemName    string    `db:"item_name"     table:"items"  column:"name"`
	ItemOwnerID string    `db:"item_owner_id" table:"items"  column:"owner_id"`
	BookerName  string    `db:"booker_name"   table:"booker" column:"name"`
	BookerEmail string    `db:"booker_email"  table:"booker" column:"email"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN items ON items.id = bookings.item_id JOIN users AS booker ON booker.id = bookings.booker_id"
}

// Phase reports PAST when the booking ended before now, FUTURE when it starts after now
// and CURRENT otherwise, so both boundaries count as current.
func (b Booking) Phase(now time.Time) Phase {
	switch {
	case b.End.Before(now):
		return PhasePast
	case b.Start.After(now):
		return PhaseFuture
	default:
		return PhaseCurrent
	}
}

// State selects a subset of a booker's bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

const (
	EventCreated  = "booking.created"
	EventApproved = "booking.approved"
	EventRejected = "booking.rejected"
)

// ParseState is case-insensitive and treats an empty value as ALL.
func ParseState(value string) (State, bool) {
	state := State(strings.ToUpper(strings.TrimSpace(value)))
	if state == "" {
		return StateAll, true
	}

	switch state {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return state, true
	default:
		return state, false
	}
}
