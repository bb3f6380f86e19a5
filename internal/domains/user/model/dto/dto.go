package dto

import (
	"shareit/internal/domains/user/model"
	gModel "shareit/shared/model"
	"shareit/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

// CreateUserRequest leaves the email presence check to the service so a blank
// address is reported with its own message.
type CreateUserRequest struct {
	Name  string `json:"name"  validate:"required,notblank,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=512"`
}

func (c *CreateUserRequest) ToModel() model.User {
	now := timezone.Now().UTC()

	return model.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

type UpdateUserRequest struct {
	Name  *string `db:"name"  json:"name"  validate:"omitempty,notblank,max=255"`
	Email *string `db:"email" json:"email" validate:"omitempty,email,max=512"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
}

func FromModels(models []model.User) []UserResponse {
	res := make([]UserResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
