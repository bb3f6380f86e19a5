package dto

import (
	itemModel "shareit/internal/domains/item/model"
	"shareit/internal/domains/request/model"
	gDto "shareit/shared/dto"
	gModel "shareit/shared/model"
	"shareit/shared/sanitizer"
	"shareit/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateRequestRequest struct {
	Description string         `json:"description" validate:"required,notblank,max=2000"`
	Created     *gDto.DateTime `json:"created"`
}

// ToModel stamps the request with now when no creation time was supplied.
func (c *CreateRequestRequest) ToModel(requesterID string) model.ItemRequest {
	now := timezone.Now().UTC()

	created := now
	if c.Created != nil {
		created = c.Created.UTC()
	}

	return model.ItemRequest{
		ID:          uuid.NewString(),
		Description: sanitizer.Text(c.Description),
		RequesterID: requesterID,
		Created:     created,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  requesterID,
			ModifiedBy: requesterID,
		},
	}
}

type UpdateRequestRequest struct {
	Description *string        `json:"description" validate:"omitempty,notblank,max=2000"`
	Created     *gDto.DateTime `json:"created"`
}

// Fields returns the columns to change, keyed by column name. Omitted fields are left out.
func (u *UpdateRequestRequest) Fields() UpdateRequestFields {
	fields := UpdateRequestFields{
		Description: sanitizer.Ptr(u.Description),
	}

	if u.Created != nil {
		created := u.Created.UTC()
		fields.Created = &created
	}

	return fields
}

type UpdateRequestFields struct {
	Description *string    `db:"description"`
	Created     *time.Time `db:"created"`
}

type ItemSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     string `json:"owner_id"`
	RequestID   string `json:"request_id"`
}

type RequestResponse struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	RequesterID string        `json:"requester_id"`
	Created     gDto.DateTime `json:"created"`
	Items       []ItemSummary `json:"items"`
}

func (r *RequestResponse) FromModel(request model.ItemRequest, items []itemModel.Item) {
	r.ID = request.ID
	r.Description = request.Description
	r.RequesterID = request.RequesterID
	r.Created = gDto.NewDateTime(request.Created)

	r.Items = make([]ItemSummary, 0, len(items))
	for _, item := range items {
		r.Items = append(r.Items, ItemSummary{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Available:   item.Available,
			OwnerID:     item.OwnerID,
			RequestID:   request.ID,
		})
	}
}
