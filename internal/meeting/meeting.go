// Package meeting defines the core data types for tracked Teams meetings
// and the in-memory membership tracker that owns them.
package meeting

import (
	"strings"
	"time"
)

// Role identifies a participant's role within a meeting.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleCoorganizer Role = "coorganizer"
	RolePresenter   Role = "presenter"
	RoleAttendee    Role = "attendee"
	RoleProducer    Role = "producer"
)

// ParseRole maps a channel-provided role string onto a known Role.
// Unknown or empty values fall back to attendee.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOrganizer:
		return RoleOrganizer
	case RoleCoorganizer:
		return RoleCoorganizer
	case RolePresenter:
		return RolePresenter
	case RoleProducer:
		return RoleProducer
	default:
		return RoleAttendee
	}
}

// Participant is one meeting attendee, identified by a stable id within
// that meeting.
type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	Muted       bool      `json:"is_muted"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Meeting is a single Teams meeting session tracked for the duration
// participants are present. OrganizerID is "unknown" until the channel
// reveals it.
type Meeting struct {
	ID           string        `json:"meeting_id"`
	OrganizerID  string        `json:"organizer_id"`
	Subject      string        `json:"subject,omitempty"`
	Participants []Participant `json:"participants"`
	StartedAt    time.Time     `json:"started_at"`
}

// Account identifies one side of a conversation (bot or user).
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationReference is the opaque handle needed to proactively send
// a message back into a meeting's chat channel.
type ConversationReference struct {
	ConversationID string  `json:"conversation_id"`
	ServiceURL     string  `json:"service_url"`
	ChannelID      string  `json:"channel_id"`
	TenantID       string  `json:"tenant_id,omitempty"`
	Bot            Account `json:"bot"`
	User           Account `json:"user"`
}
