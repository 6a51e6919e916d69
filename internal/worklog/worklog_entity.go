package worklog

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsOwnerMutable reports whether the owner may still edit, submit or delete.
func (s Status) IsOwnerMutable() bool {
	return s == StatusDraft || s == StatusRejected
}

// WorkLog is one shift entry. Column names match the existing work_logs table:
// the reviewer lives in approved_by/approved_at for both approve and reject.
type WorkLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_work_logs_user_date"`
	WorkDate     time.Time `gorm:"type:date;not null;index:idx_work_logs_user_date"`
	StartTime    string    `gorm:"type:varchar(8);not null"`
	EndTime      string    `gorm:"type:varchar(8);not null"`
	BreakMinutes int       `gorm:"type:int;not null;default:0"`
	Note         *string   `gorm:"type:text"`

	Status       Status     `gorm:"type:varchar(20);not null;default:'draft';index:idx_work_logs_status"`
	ReviewerID   *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ReviewedAt   *time.Time `gorm:"column:approved_at"`
	RejectReason *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WorkLog) TableName() string {
	return "work_logs"
}

// ReviewRow is a submitted log joined with its owner's profile.
type ReviewRow struct {
	WorkLog
	OwnerName  string `gorm:"column:owner_name"`
	OwnerEmail string `gorm:"column:owner_email"`
}
