package events

import "time"

const WorkLogReviewedTopic = "pharmacy.worklog.reviewed.v1"

const (
	EventWorkLogApproved = "worklog_approved"
	EventWorkLogRejected = "worklog_rejected"
)

type WorkLogReviewedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	WorkLogID    string    `json:"work_log_id"`
	UserID       string    `json:"user_id"`
	ReviewerID   string    `json:"reviewer_id"`
	Status       string    `json:"status"`
	WorkDate     string    `json:"work_date"`
	RejectReason *string   `json:"reject_reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
