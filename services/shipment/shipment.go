package shipment

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"courier-backend/constants"
	shipmentModel "courier-backend/models/shipment"
	userModel "courier-backend/models/user"
	shipmentTypes "courier-backend/types/shipment"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const (
	trackingIDPrefix   = "TRK"
	trackingIDAttempts = 5

	// Days from booking to the promised delivery date
	estimatedDeliveryDays = 4
)

// Service is the shipment ledger: booking, status transitions, the
// append-only timeline and the derived tracking values.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// newTrackingID builds one tracking id candidate: the fixed prefix, the last
// 8 digits of the epoch-millisecond timestamp and a zero-padded 3-digit
// random number.
func newTrackingID() string {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(timestamp) > 8 {
		timestamp = timestamp[len(timestamp)-8:]
	}
	random := fmt.Sprintf("%03d", rand.Intn(1000))
	return trackingIDPrefix + timestamp + random
}

// GenerateTrackingID returns a tracking id that is not yet present in the
// store. The timestamp+random scheme can collide under load, so candidates
// are checked and retried a bounded number of times; the unique constraint
// on the column catches the remaining race.
func (s *Service) GenerateTrackingID() (string, error) {
	for attempt := 0; attempt < trackingIDAttempts; attempt++ {
		candidate := newTrackingID()

		var count int64
		if err := s.db.Model(&shipmentModel.Shipment{}).
			Where("tracking_id = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrTrackingIDExhausted
}

// EstimatedDelivery computes the promised delivery date for a booking made
// at the given time.
func EstimatedDelivery(bookedAt time.Time) time.Time {
	return now.With(bookedAt.AddDate(0, 0, estimatedDeliveryDays)).EndOfDay()
}

// CityCode derives the display code for a city: the first three characters
// uppercased. Shorter names come back whole, uppercased.
func CityCode(city string) string {
	if len(city) <= 3 {
		return strings.ToUpper(city)
	}
	return strings.ToUpper(city[:3])
}

// Create books a new shipment for the given sender. The sender's current
// name, phone, email, address and city are copied onto the shipment row, and
// the first timeline entry is written in the same transaction so a shipment
// can never exist without its booking event.
func (s *Service) Create(senderID uint, req shipmentTypes.CreateShipmentRequest) (*shipmentModel.Shipment, error) {
	var sender userModel.User
	if err := s.db.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	trackingID, err := s.GenerateTrackingID()
	if err != nil {
		return nil, err
	}

	bookedAt := time.Now()
	eta := EstimatedDelivery(bookedAt)

	shipment := shipmentModel.Shipment{
		TrackingID:        trackingID,
		SenderID:          sender.ID,
		SenderName:        sender.Name,
		SenderPhone:       sender.Phone,
		SenderEmail:       sender.Email,
		SenderAddress:     sender.Address,
		SenderCity:        sender.City,
		ReceiverName:      req.RecipientName,
		ReceiverPhone:     req.RecipientPhone,
		ReceiverAddress:   req.RecipientAddress,
		ReceiverCity:      req.RecipientCity,
		Weight:            req.Weight,
		PackageType:       req.PackageType,
		Description:       req.Description,
		Status:            shipmentModel.StatusBooked,
		BookingDate:       bookedAt,
		EstimatedDelivery: &eta,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shipment).Error; err != nil {
			return err
		}

		entry := shipmentModel.TimelineEntry{
			ShipmentID:  shipment.ID,
			Status:      shipmentModel.StatusBooked,
			Location:    sender.City,
			Description: "Shipment booked successfully",
			Timestamp:   bookedAt,
			CreatedBy:   &sender.ID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	return &shipment, nil
}

// FindByID returns a shipment by its internal id.
func (s *Service) FindByID(id uint) (*shipmentModel.Shipment, error) {
	var sh shipmentModel.Shipment
	err := s.db.First(&sh, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// FindByTrackingID returns a shipment by its public tracking id.
func (s *Service) FindByTrackingID(trackingID string) (*shipmentModel.Shipment, error) {
	var sh shipmentModel.Shipment
	err := s.db.Where("tracking_id = ?", trackingID).First(&sh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// FindByUserID lists a sender's shipments, newest first.
func (s *Service) FindByUserID(userID uint) ([]shipmentModel.Shipment, error) {
	var shipments []shipmentModel.Shipment
	err := s.db.Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&shipments).Error
	return shipments, err
}

// FindAll lists every shipment with the sender account attached, newest
// first. Admin view.
func (s *Service) FindAll() ([]shipmentModel.Shipment, error) {
	var shipments []shipmentModel.Shipment
	err := s.db.Preload("Sender").
		Order("created_at DESC").
		Find(&shipments).Error
	return shipments, err
}

// FindByAgentID lists the shipments assigned to an agent with the sender
// account attached, newest first.
func (s *Service) FindByAgentID(agentID uint) ([]shipmentModel.Shipment, error) {
	var shipments []shipmentModel.Shipment
	err := s.db.Preload("Sender").
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&shipments).Error
	return shipments, err
}

// UpdateStatus moves a shipment to a new status and appends the matching
// timeline entry, both in one transaction. The status must be one of the
// known values.
func (s *Service) UpdateStatus(trackingID string, status shipmentModel.ShipmentStatus, location, description string, updatedBy *uint) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	sh, err := s.FindByTrackingID(trackingID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&shipmentModel.Shipment{}).
			Where("id = ?", sh.ID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		entry := shipmentModel.TimelineEntry{
			ShipmentID:  sh.ID,
			Status:      status,
			Location:    location,
			Description: description,
			Timestamp:   time.Now(),
			CreatedBy:   updatedBy,
		}
		return tx.Create(&entry).Error
	})
}

// AssignAgent sets the handling agent for a shipment. The target account
// must exist and hold the agent role.
func (s *Service) AssignAgent(trackingID string, agentID uint) error {
	sh, err := s.FindByTrackingID(trackingID)
	if err != nil {
		return err
	}

	var agent userModel.User
	if err := s.db.First(&agent, agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAnAgent
		}
		return err
	}
	if agent.Role != constants.RoleAgent {
		return ErrNotAnAgent
	}

	return s.db.Model(&shipmentModel.Shipment{}).
		Where("id = ?", sh.ID).
		Updates(map[string]interface{}{
			"agent_id":   agentID,
			"updated_at": time.Now(),
		}).Error
}

// Timeline returns a shipment's status history, newest first. The id is the
// tiebreak for entries stamped in the same instant.
func (s *Service) Timeline(shipmentID uint) ([]shipmentModel.TimelineEntry, error) {
	var entries []shipmentModel.TimelineEntry
	err := s.db.Where("shipment_id = ?", shipmentID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
