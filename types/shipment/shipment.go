package shipment

import (
	"fmt"
)

type CreateShipmentRequest struct {
	RecipientName    string  `json:"recipientName" validate:"required,min=1,max=255"`
	RecipientPhone   string  `json:"recipientPhone" validate:"required,phone"`
	RecipientAddress string  `json:"recipientAddress" validate:"required,min=1"`
	RecipientCity    string  `json:"recipientCity" validate:"required,min=1,max=100"`
	Weight           float64 `json:"weight" validate:"omitempty,gt=0"`
	PackageType      string  `json:"packageType" validate:"omitempty,max=100"`
	Description      string  `json:"description" validate:"omitempty"`
}

type UpdateStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	Location    string `json:"location" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty"`
}

type AssignAgentRequest struct {
	AgentID uint `json:"agentId" validate:"required"`
}

func (r CreateShipmentRequest) Validate() error {
	if r.RecipientName == "" {
		return fmt.Errorf("recipientName is required")
	}
	if r.RecipientPhone == "" {
		return fmt.Errorf("recipientPhone is required")
	}
	if r.RecipientAddress == "" {
		return fmt.Errorf("recipientAddress is required")
	}
	if r.RecipientCity == "" {
		return fmt.Errorf("recipientCity is required")
	}
	if r.Weight < 0 {
		return fmt.Errorf("weight must not be negative")
	}
	return nil
}

func (r UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}

func (r AssignAgentRequest) Validate() error {
	if r.AgentID == 0 {
		return fmt.Errorf("agentId is required")
	}
	return nil
}
