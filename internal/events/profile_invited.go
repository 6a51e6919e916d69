package events

import "time"

const ProfileInvitedTopic = "pharmacy.profile.invited.v1"

const EventProfileInvited = "profile_invited"

type ProfileInvitedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	ProfileID   string    `json:"profile_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	InviteToken string    `json:"invite_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	InvitedBy   string    `json:"invited_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
