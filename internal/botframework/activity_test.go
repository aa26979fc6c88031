package botframework

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nadzzz/meetgreet/internal/meeting"
)

const joinActivity = `{
	"type": "event",
	"name": "application/vnd.microsoft.meetingParticipantJoin",
	"serviceUrl": "https://smba.trafficmanager.net/teams/",
	"channelId": "msteams",
	"conversation": {"id": "conv-1", "tenantId": "tenant-1"},
	"from": {"id": "u-ana", "name": "Ana"},
	"recipient": {"id": "bot-1", "name": "TeamsGreetingBot"},
	"channelData": {"meeting": {"id": "m1", "title": "Daily"}},
	"value": {"members": [
		{"user": {"id": "u-ana", "name": "Ana", "userPrincipalName": "ana@contoso.com"},
		 "meeting": {"role": "Organizer", "inMeeting": true}},
		{"user": {"id": "u-bruno", "name": "Bruno"},
		 "meeting": {"role": "Attendee", "inMeeting": true}}
	]}
}`

func TestParseActivity_ParticipantJoin(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(joinActivity))
	req.NoError(err)
	req.Equal(KindParticipantsJoined, ev.Kind)
	req.Equal("m1", ev.MeetingID)
	req.Equal("Daily", ev.Subject)
	req.Equal("bot-1", ev.BotID)

	req.Len(ev.Participants, 2)
	req.Equal("u-ana", ev.Participants[0].ID)
	req.Equal("Ana", ev.Participants[0].DisplayName)
	req.Equal("ana@contoso.com", ev.Participants[0].Email)
	req.Equal(meeting.RoleOrganizer, ev.Participants[0].Role)
	req.Equal(meeting.RoleAttendee, ev.Participants[1].Role)

	req.Equal("conv-1", ev.Conversation.ConversationID)
	req.Equal("https://smba.trafficmanager.net/teams/", ev.Conversation.ServiceURL)
	req.Equal("tenant-1", ev.Conversation.TenantID)
	req.Equal("bot-1", ev.Conversation.Bot.ID)
}

func TestParseActivity_ParticipantLeave(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(`{
		"type": "event",
		"name": "application/vnd.microsoft.meetingParticipantLeave",
		"serviceUrl": "https://smba.trafficmanager.net/teams/",
		"conversation": {"id": "conv-1"},
		"recipient": {"id": "bot-1"},
		"channelData": {"meeting": {"id": "m1"}},
		"value": {"members": [{"user": {"id": "u-ana", "name": "Ana"}}]}
	}`))
	req.NoError(err)
	req.Equal(KindParticipantsLeft, ev.Kind)
	req.Equal("m1", ev.MeetingID)
	req.Equal([]string{"u-ana"}, ev.ParticipantIDs)
}

func TestParseActivity_Message(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(`{
		"type": "message",
		"text": "  /status  ",
		"serviceUrl": "https://smba.trafficmanager.net/teams/",
		"conversation": {"id": "conv-1"},
		"from": {"id": "u-ana", "name": "Ana"},
		"recipient": {"id": "bot-1"}
	}`))
	req.NoError(err)
	req.Equal(KindMessage, ev.Kind)
	req.Equal("/status", ev.Text)
}

func TestParseActivity_MembersAdded(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(`{
		"type": "conversationUpdate",
		"serviceUrl": "https://smba.trafficmanager.net/teams/",
		"conversation": {"id": "conv-1"},
		"recipient": {"id": "bot-1", "name": "TeamsGreetingBot"},
		"membersAdded": [{"id": "bot-1", "name": "TeamsGreetingBot"}]
	}`))
	req.NoError(err)
	req.Equal(KindMembersAdded, ev.Kind)
	req.Len(ev.Members, 1)
	req.Equal("bot-1", ev.Members[0].ID)
}

func TestParseActivity_TenantFromChannelData(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(`{
		"type": "message",
		"text": "hi",
		"conversation": {"id": "conv-1"},
		"channelData": {"tenant": {"id": "tenant-9"}}
	}`))
	req.NoError(err)
	req.Equal("tenant-9", ev.Conversation.TenantID)
}

func TestParseActivity_UnhandledTypesAreIgnored(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(`{"type": "typing", "conversation": {"id": "conv-1"}}`))
	req.NoError(err)
	req.Equal(KindIgnored, ev.Kind)

	// Meeting lifecycle events only confirm channel data
	ev, err = ParseActivity([]byte(`{
		"type": "event",
		"name": "application/vnd.microsoft.meetingStart",
		"conversation": {"id": "conv-1"},
		"channelData": {"meeting": {"id": "m1"}}
	}`))
	req.NoError(err)
	req.Equal(KindIgnored, ev.Kind)
	req.Equal("m1", ev.MeetingID)
}

func TestParseActivity_RejectsMalformedEnvelopes(t *testing.T) {
	req := require.New(t)

	cases := map[string]string{
		"not json":                `{{{`,
		"missing type":            `{"conversation": {"id": "c"}}`,
		"missing conversation":    `{"type": "message"}`,
		"missing conversation.id": `{"type": "message", "conversation": {}}`,
		"join without meeting id": `{
			"type": "event",
			"name": "application/vnd.microsoft.meetingParticipantJoin",
			"conversation": {"id": "conv-1"},
			"value": {"members": [{"user": {"id": "u1"}}]}
		}`,
		"join without value": `{
			"type": "event",
			"name": "application/vnd.microsoft.meetingParticipantJoin",
			"conversation": {"id": "conv-1"},
			"channelData": {"meeting": {"id": "m1"}}
		}`,
		"join with empty members": `{
			"type": "event",
			"name": "application/vnd.microsoft.meetingParticipantJoin",
			"conversation": {"id": "conv-1"},
			"channelData": {"meeting": {"id": "m1"}},
			"value": {"members": []}
		}`,
		"join member without user id": `{
			"type": "event",
			"name": "application/vnd.microsoft.meetingParticipantJoin",
			"conversation": {"id": "conv-1"},
			"channelData": {"meeting": {"id": "m1"}},
			"value": {"members": [{"user": {"name": "Ana"}}]}
		}`,
	}

	for name, raw := range cases {
		_, err := ParseActivity([]byte(raw))
		req.Error(err, name)
	}
}

func TestParseActivity_UnnamedUserGetsPlaceholder(t *testing.T) {
	req := require.New(t)

	ev, err := ParseActivity([]byte(`{
		"type": "event",
		"name": "application/vnd.microsoft.meetingParticipantJoin",
		"conversation": {"id": "conv-1"},
		"channelData": {"meeting": {"id": "m1"}},
		"value": {"members": [{"user": {"id": "u1"}}]}
	}`))
	req.NoError(err)
	req.Equal("Unknown User", ev.Participants[0].DisplayName)
}
