package model

import (
	"shareit/shared/model"
	"time"
)

const (
	TableName  = "item_requests"
	EntityName = "item_request"

	FieldID          = "id"
	FieldDescription = "description"
	FieldRequesterID = "requester_id"
	FieldCreated     = "created"
)

type ItemRequest struct {
	ID          string    `db:"id"`
	Description string    `db:"description"`
	RequesterID string    `db:"requester_id"`
	Created     time.Time `db:"created"`
	model.Metadata
}
