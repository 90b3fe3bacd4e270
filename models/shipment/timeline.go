package shipment

import (
	"time"
)

// TimelineEntry is one append-only status event in a shipment's audit
// history. Every shipment gets its first entry at booking time; entries are
// never updated or deleted afterwards.
type TimelineEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for the owning shipment
	ShipmentID uint     `gorm:"not null;index" json:"shipment_id"`
	Shipment   Shipment `gorm:"foreignKey:ShipmentID" json:"-"`

	Status      ShipmentStatus `gorm:"size:50;not null" json:"status"`
	Location    string         `gorm:"type:varchar(255)" json:"location"`
	Description string         `gorm:"type:text" json:"description"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	CreatedBy   *uint          `json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the TimelineEntry model
func (TimelineEntry) TableName() string {
	return "shipment_timeline_entries"
}
