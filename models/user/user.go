package user

import (
	"time"
)

// User represents an account in the courier system. The role field decides
// endpoint access: "user", "agent" or "admin".
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null;unique" json:"email"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Address  string `gorm:"type:text" json:"address"`
	City     string `gorm:"type:varchar(100)" json:"city"`
	Role     string `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Status   string `gorm:"type:varchar(20);not null;default:active" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
