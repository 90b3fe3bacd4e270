package user

import (
	"fmt"
	"strings"
)

type UpdateProfileRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,phone"`
	Address string `json:"address" validate:"omitempty"`
	City    string `json:"city" validate:"omitempty,max=100"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Stats aggregates a sender's shipment counts.
type Stats struct {
	TotalShipments     int64 `json:"totalShipments"`
	ActiveShipments    int64 `json:"activeShipments"`
	DeliveredShipments int64 `json:"deliveredShipments"`
}

func (r UpdateProfileRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("email is not valid")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	return nil
}

func (r UpdatePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if len(r.NewPassword) < 6 {
		return fmt.Errorf("new password must be at least 6 characters")
	}
	return nil
}
