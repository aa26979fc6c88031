// Package botframework adapts the Bot Framework wire protocol for the
// greeting bot: it parses inbound activity envelopes into typed events
// and sends proactive messages back through the connector REST API.
//
// Parsing is strict up front: an envelope that fails validation is
// rejected before any membership state can be touched.
package botframework

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nadzzz/meetgreet/internal/meeting"
)

// Activity types and Teams meeting event names carried in the envelope.
const (
	activityTypeMessage            = "message"
	activityTypeEvent              = "event"
	activityTypeConversationUpdate = "conversationUpdate"

	eventNameParticipantJoin  = "application/vnd.microsoft.meetingParticipantJoin"
	eventNameParticipantLeave = "application/vnd.microsoft.meetingParticipantLeave"
	eventNameMeetingStart     = "application/vnd.microsoft.meetingStart"
	eventNameMeetingEnd       = "application/vnd.microsoft.meetingEnd"
)

// EventKind tags the parsed inbound event.
type EventKind string

const (
	KindParticipantsJoined EventKind = "participants_joined"
	KindParticipantsLeft   EventKind = "participants_left"
	KindMessage            EventKind = "message"
	KindMembersAdded       EventKind = "members_added"
	KindIgnored            EventKind = "ignored"
)

// Event is the validated, typed form of an inbound activity.
type Event struct {
	Kind EventKind

	// MeetingID is set for meeting-scoped events (joins/leaves, and any
	// activity whose channel data carries a meeting id).
	MeetingID string

	// BotID is the bot's own channel account id (the envelope recipient),
	// used to recognize the bot's own join events.
	BotID string

	// Conversation is the handle for replying into the channel the
	// activity arrived on.
	Conversation meeting.ConversationReference

	// Participants carries joined participants (KindParticipantsJoined).
	Participants []meeting.Participant

	// ParticipantIDs carries leaver ids (KindParticipantsLeft).
	ParticipantIDs []string

	// Text is the trimmed message text (KindMessage).
	Text string

	// Members carries the accounts added to the conversation
	// (KindMembersAdded).
	Members []meeting.Account

	// Subject is the meeting title when the channel reveals it.
	Subject string
}

// activity is the Bot Framework envelope shape this bot consumes.
type activity struct {
	Type         string           `json:"type" validate:"required"`
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Text         string           `json:"text"`
	ServiceURL   string           `json:"serviceUrl"`
	ChannelID    string           `json:"channelId"`
	Conversation *conversation    `json:"conversation" validate:"required"`
	From         channelAccount   `json:"from"`
	Recipient    channelAccount   `json:"recipient"`
	MembersAdded []channelAccount `json:"membersAdded"`
	ChannelData  *channelData     `json:"channelData"`
	Value        json.RawMessage  `json:"value"`
}

type conversation struct {
	ID       string `json:"id" validate:"required"`
	TenantID string `json:"tenantId"`
}

type channelAccount struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	AADObjectID       string `json:"aadObjectId"`
	UserPrincipalName string `json:"userPrincipalName"`
	Email             string `json:"email"`
}

type channelData struct {
	Tenant  *idHolder    `json:"tenant"`
	Meeting *meetingData `json:"meeting"`
}

type idHolder struct {
	ID string `json:"id"`
}

type meetingData struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// eventValue is the payload of meetingParticipantJoin/Leave events.
type eventValue struct {
	Members []eventMember `json:"members" validate:"required,min=1,dive"`
}

type eventMember struct {
	User    channelAccount `json:"user" validate:"required"`
	Meeting *memberMeeting `json:"meeting"`
}

type memberMeeting struct {
	Role      string `json:"role"`
	InMeeting bool   `json:"inMeeting"`
}

var validate = validator.New()

// ParseActivity turns a raw webhook body into a typed Event. Activities
// this bot does not handle come back as KindIgnored; structurally
// invalid envelopes are rejected with an error.
func ParseActivity(body []byte) (*Event, error) {
	var act activity
	if err := json.Unmarshal(body, &act); err != nil {
		return nil, fmt.Errorf("decoding activity: %w", err)
	}
	if err := validate.Struct(&act); err != nil {
		return nil, fmt.Errorf("invalid activity envelope: %w", err)
	}

	ev := &Event{
		Kind:  KindIgnored,
		BotID: act.Recipient.ID,
		Conversation: meeting.ConversationReference{
			ConversationID: act.Conversation.ID,
			ServiceURL:     act.ServiceURL,
			ChannelID:      act.ChannelID,
			TenantID:       act.Conversation.TenantID,
			Bot:            meeting.Account{ID: act.Recipient.ID, Name: act.Recipient.Name},
			User:           meeting.Account{ID: act.From.ID, Name: act.From.Name},
		},
	}
	if act.ChannelData != nil && act.ChannelData.Meeting != nil {
		ev.MeetingID = act.ChannelData.Meeting.ID
		ev.Subject = act.ChannelData.Meeting.Title
	}
	if ev.Conversation.TenantID == "" && act.ChannelData != nil && act.ChannelData.Tenant != nil {
		ev.Conversation.TenantID = act.ChannelData.Tenant.ID
	}

	switch act.Type {
	case activityTypeMessage:
		ev.Kind = KindMessage
		ev.Text = strings.TrimSpace(act.Text)

	case activityTypeConversationUpdate:
		if len(act.MembersAdded) == 0 {
			return ev, nil
		}
		ev.Kind = KindMembersAdded
		for _, m := range act.MembersAdded {
			ev.Members = append(ev.Members, meeting.Account{ID: m.ID, Name: m.Name})
		}

	case activityTypeEvent:
		switch act.Name {
		case eventNameParticipantJoin, eventNameParticipantLeave:
			if ev.MeetingID == "" {
				return nil, fmt.Errorf("participant event without meeting id")
			}
			members, err := parseEventMembers(act.Value)
			if err != nil {
				return nil, err
			}
			if act.Name == eventNameParticipantJoin {
				ev.Kind = KindParticipantsJoined
				for _, m := range members {
					ev.Participants = append(ev.Participants, toParticipant(m))
				}
			} else {
				ev.Kind = KindParticipantsLeft
				for _, m := range members {
					ev.ParticipantIDs = append(ev.ParticipantIDs, m.User.ID)
				}
			}
		case eventNameMeetingStart, eventNameMeetingEnd:
			// Meeting lifecycle is driven by participant membership, not
			// by these events; they only confirm channel data.
		}
	}

	return ev, nil
}

func parseEventMembers(raw json.RawMessage) ([]eventMember, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("participant event without value")
	}
	var val eventValue
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("decoding participant event value: %w", err)
	}
	if err := validate.Struct(&val); err != nil {
		return nil, fmt.Errorf("invalid participant event value: %w", err)
	}
	for _, m := range val.Members {
		if m.User.ID == "" {
			return nil, fmt.Errorf("participant event member without user id")
		}
	}
	return val.Members, nil
}

func toParticipant(m eventMember) meeting.Participant {
	role := meeting.RoleAttendee
	if m.Meeting != nil {
		role = meeting.ParseRole(m.Meeting.Role)
	}
	email := m.User.Email
	if email == "" {
		email = m.User.UserPrincipalName
	}
	name := m.User.Name
	if name == "" {
		name = "Unknown User"
	}
	return meeting.Participant{
		ID:          m.User.ID,
		DisplayName: name,
		Email:       email,
		Role:        role,
	}
}
