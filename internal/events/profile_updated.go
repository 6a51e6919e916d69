package events

import "time"

const ProfileUpdatedTopic = "pharmacy.profile.updated.v1"

const EventProfilePayConfigChanged = "profile_pay_config_changed"

type ProfileUpdatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	ProfileID  string    `json:"profile_id"`
	UpdatedBy  string    `json:"updated_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
