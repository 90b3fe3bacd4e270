package user

import (
	"errors"

	"courier-backend/constants"
	shipmentModel "courier-backend/models/shipment"
	userModel "courier-backend/models/user"
	userTypes "courier-backend/types/user"
	"courier-backend/utils"

	"gorm.io/gorm"
)

// Service is the user directory: account lookup, registration, profile and
// password updates, and per-sender shipment statistics.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// FindByEmail returns the account for the given email including its password
// hash, or nil when no such account exists.
func (s *Service) FindByEmail(email string) (*userModel.User, error) {
	var u userModel.User
	err := s.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns the account without its password hash.
func (s *Service) FindByID(id uint) (*userModel.User, error) {
	var u userModel.User
	err := s.db.
		Select("id", "name", "email", "phone", "address", "city", "role", "status", "created_at", "updated_at").
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIDWithPassword returns the full account row, hash included. Used for
// password changes only.
func (s *Service) FindByIDWithPassword(id uint) (*userModel.User, error) {
	var u userModel.User
	err := s.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateParams carries the fields needed to register an account.
type CreateParams struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Address  string
	City     string
	Role     string
}

// Create registers a new account. The password is hashed before insert and
// the role defaults to "user". A taken email fails with ErrDuplicateEmail;
// the unique constraint on the column backs the check against races.
func (s *Service) Create(params CreateParams) (uint, error) {
	existing, err := s.FindByEmail(params.Email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrDuplicateEmail
	}

	hashed, err := utils.HashPassword(params.Password)
	if err != nil {
		return 0, err
	}

	role := params.Role
	if role == "" {
		role = constants.RoleUser
	}

	u := userModel.User{
		Name:     params.Name,
		Email:    params.Email,
		Phone:    params.Phone,
		Password: hashed,
		Address:  params.Address,
		City:     params.City,
		Role:     role,
		Status:   "active",
	}

	if err := s.db.Create(&u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

// UpdateProfile overwrites the mutable profile fields. Existing shipments
// keep their sender snapshot regardless.
func (s *Service) UpdateProfile(userID uint, req userTypes.UpdateProfileRequest) error {
	return s.db.Model(&userModel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"name":    req.Name,
			"email":   req.Email,
			"phone":   req.Phone,
			"address": req.Address,
			"city":    req.City,
		}).Error
}

// UpdatePassword re-hashes and stores a new password.
func (s *Service) UpdatePassword(userID uint, newPassword string) error {
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&userModel.User{}).
		Where("id = ?", userID).
		Update("password", hashed).Error
}

// Stats computes total, active and delivered shipment counts for a sender.
func (s *Service) Stats(userID uint) (userTypes.Stats, error) {
	var stats userTypes.Stats

	if err := s.db.Model(&shipmentModel.Shipment{}).
		Where("sender_id = ?", userID).
		Count(&stats.TotalShipments).Error; err != nil {
		return stats, err
	}

	if err := s.db.Model(&shipmentModel.Shipment{}).
		Where("sender_id = ? AND status != ?", userID, shipmentModel.StatusDelivered).
		Count(&stats.ActiveShipments).Error; err != nil {
		return stats, err
	}

	if err := s.db.Model(&shipmentModel.Shipment{}).
		Where("sender_id = ? AND status = ?", userID, shipmentModel.StatusDelivered).
		Count(&stats.DeliveredShipments).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
