package dto

import (
	"time"
)

type CreatePersonRequest struct {
	Name          string   `json:"name" validate:"required,min=3,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=5"`
	RoutePolicies []string `json:"routePolicies" validate:"omitempty,dive,required"`
}

type UpdatePersonRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=100"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// PersonResponse never carries the password hash.
type PersonResponse struct {
	Id            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	RoutePolicies []string  `json:"routePolicies"`
	Active        bool      `json:"active"`
	Picture       string    `json:"picture"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
