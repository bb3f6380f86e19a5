package gateway

import (
	gDto "shareit/shared/dto"
)

type createUser struct {
	Name  string `json:"name"  validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

type updateUser struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type createItem struct {
	Name        string `json:"name"        validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Available   *bool  `json:"available"   validate:"required"`
}

type createBooking struct {
	ItemID string         `json:"item_id" validate:"required,notblank"`
	Start  *gDto.DateTime `json:"start"   validate:"required"`
	End    *gDto.DateTime `json:"end"     validate:"required"`
}

type createRequest struct {
	Description string `json:"description" validate:"required,notblank"`
}

type createComment struct {
	Text string `json:"text" validate:"required,notblank"`
}
