package shipment

import (
	"time"

	"courier-backend/models/user"
)

// Shipment represents a booked shipment. Sender fields are a snapshot of the
// sender's user record taken at booking time; later profile edits must not
// change existing shipments.
type Shipment struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackingID string `gorm:"type:varchar(20);not null;unique" json:"tracking_id"`

	// Foreign key for the sender relationship
	SenderID uint      `gorm:"not null;index" json:"sender_id"`
	Sender   user.User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	SenderName    string `gorm:"type:varchar(255);not null" json:"sender_name"`
	SenderPhone   string `gorm:"type:varchar(20);not null" json:"sender_phone"`
	SenderEmail   string `gorm:"type:varchar(255);not null" json:"sender_email"`
	SenderAddress string `gorm:"type:text" json:"sender_address"`
	SenderCity    string `gorm:"type:varchar(100)" json:"sender_city"`

	ReceiverName    string `gorm:"type:varchar(255);not null" json:"receiver_name"`
	ReceiverPhone   string `gorm:"type:varchar(20);not null" json:"receiver_phone"`
	ReceiverAddress string `gorm:"type:text;not null" json:"receiver_address"`
	ReceiverCity    string `gorm:"type:varchar(100);not null" json:"receiver_city"`

	Weight      float64 `gorm:"type:decimal(10,2)" json:"weight"`
	PackageType string  `gorm:"type:varchar(100)" json:"package_type"`
	Description string  `gorm:"type:text" json:"description"`

	Status ShipmentStatus `gorm:"type:varchar(50);not null;default:Booked" json:"status"`

	// Nullable until an admin assigns an agent
	AgentID *uint      `gorm:"index" json:"agent_id,omitempty"`
	Agent   *user.User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`

	BookingDate       time.Time  `gorm:"not null" json:"booking_date"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
