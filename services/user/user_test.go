package user

import (
	"fmt"
	"strings"
	"testing"

	"courier-backend/constants"
	shipmentModel "courier-backend/models/shipment"
	userModel "courier-backend/models/user"
	userTypes "courier-backend/types/user"
	"courier-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&shipmentModel.Shipment{},
		&shipmentModel.TimelineEntry{},
	))
	return db
}

func createParams(email string) CreateParams {
	return CreateParams{
		Name:     "Asha Rao",
		Email:    email,
		Phone:    "9876543210",
		Password: "secret123",
		Address:  "14 Hill Road",
		City:     "Mumbai",
	}
}

func TestCreateDefaultsAndHashes(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	id, err := svc.Create(createParams("asha@example.com"))
	require.NoError(t, err)
	require.NotZero(t, id)

	stored, err := svc.FindByIDWithPassword(id)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, stored.Role)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, utils.CheckPassword("secret123", stored.Password))
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.Create(createParams("asha@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(createParams("asha@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestFindByEmailAbsentIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	found, err := svc.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindByIDExcludesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	id, err := svc.Create(createParams("asha@example.com"))
	require.NoError(t, err)

	found, err := svc.FindByID(id)
	require.NoError(t, err)
	assert.Empty(t, found.Password)
	assert.Equal(t, "asha@example.com", found.Email)

	_, err = svc.FindByID(4242)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	id, err := svc.Create(createParams("asha@example.com"))
	require.NoError(t, err)

	err = svc.UpdateProfile(id, userTypes.UpdateProfileRequest{
		Name:    "Asha R",
		Email:   "asha.r@example.com",
		Phone:   "9000000000",
		Address: "15 Hill Road",
		City:    "Pune",
	})
	require.NoError(t, err)

	found, err := svc.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Asha R", found.Name)
	assert.Equal(t, "asha.r@example.com", found.Email)
	assert.Equal(t, "Pune", found.City)
}

func TestUpdatePasswordRehashes(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	id, err := svc.Create(createParams("asha@example.com"))
	require.NoError(t, err)

	before, err := svc.FindByIDWithPassword(id)
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(id, "another456"))

	after, err := svc.FindByIDWithPassword(id)
	require.NoError(t, err)
	assert.NotEqual(t, before.Password, after.Password)
	assert.True(t, utils.CheckPassword("another456", after.Password))
	assert.False(t, utils.CheckPassword("secret123", after.Password))
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	id, err := svc.Create(createParams("asha@example.com"))
	require.NoError(t, err)

	serial := 0
	seed := func(status shipmentModel.ShipmentStatus) {
		serial++
		sh := shipmentModel.Shipment{
			TrackingID:      fmt.Sprintf("TRK%011d", serial),
			SenderID:        id,
			SenderName:      "Asha Rao",
			SenderPhone:     "9876543210",
			SenderEmail:     "asha@example.com",
			ReceiverName:    "Vikram Shah",
			ReceiverPhone:   "9123456780",
			ReceiverAddress: "2 Park Street",
			ReceiverCity:    "Delhi",
			Status:          status,
		}
		require.NoError(t, db.Create(&sh).Error)
	}

	seed(shipmentModel.StatusBooked)
	seed(shipmentModel.StatusInTransit)
	seed(shipmentModel.StatusDelivered)

	stats, err := svc.Stats(id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalShipments)
	assert.Equal(t, int64(2), stats.ActiveShipments)
	assert.Equal(t, int64(1), stats.DeliveredShipments)
}
