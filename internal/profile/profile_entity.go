package profile

import (
	"time"

	"pharmacy-hr/internal/domain"

	"github.com/google/uuid"
)

type Profile struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Email      string      `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_profiles_email"`
	Name       string      `gorm:"column:name;type:varchar(255);not null"`
	Role       domain.Role `gorm:"column:role;type:varchar(20);not null;default:'staff';index"`
	HourlyRate float64     `gorm:"column:hourly_rate;type:numeric(12,2);not null;default:0"`
	TaxRate    float64     `gorm:"column:tax_rate;type:numeric(5,4);not null;default:0"`
	IsActive   bool        `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Credential holds login secrets apart from profile data.
// A pending invite has InviteTokenHash set and PasswordHash nil.
type Credential struct {
	ProfileID       uuid.UUID  `gorm:"column:profile_id;type:uuid;primaryKey"`
	PasswordHash    *string    `gorm:"column:password_hash;type:varchar(255)"`
	InviteTokenHash *string    `gorm:"column:invite_token_hash;type:char(64);uniqueIndex"`
	InviteExpiresAt *time.Time `gorm:"column:invite_expires_at"`
	PasswordSetAt   *time.Time `gorm:"column:password_set_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Credential) TableName() string {
	return "credentials"
}
