package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ana() Participant {
	return Participant{ID: "p1", DisplayName: "Ana", Role: RoleAttendee}
}

func bruno() Participant {
	return Participant{ID: "p2", DisplayName: "Bruno", Role: RolePresenter}
}

func TestTracker_Join_CreatesMeetingLazily(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	// Given an unseen meeting id
	_, err := tr.Meeting("m1")
	req.ErrorIs(err, ErrMeetingNotFound)

	// When a participant joins
	outcome, err := tr.HandleJoin("m1", ana())
	req.NoError(err)

	// Then the meeting exists with that single participant
	req.True(outcome.NewParticipant)
	m, err := tr.Meeting("m1")
	req.NoError(err)
	req.Equal("m1", m.ID)
	req.Equal(UnknownOrganizer, m.OrganizerID)
	req.Len(m.Participants, 1)
	req.Equal("Ana", m.Participants[0].DisplayName)
	req.False(m.StartedAt.IsZero())
	req.False(m.Participants[0].JoinedAt.IsZero())
}

func TestTracker_Join_IsIdempotent(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	first, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	req.True(first.NewParticipant)

	// A duplicate join is a rejoin signal, not an error
	second, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	req.False(second.NewParticipant)

	m, err := tr.Meeting("m1")
	req.NoError(err)
	req.Len(m.Participants, 1)
}

func TestTracker_Join_RequiresIDs(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	_, err := tr.HandleJoin("", ana())
	req.Error(err)

	_, err = tr.HandleJoin("m1", Participant{DisplayName: "Ana"})
	req.Error(err)
	req.Empty(tr.ActiveMeetings())
}

func TestTracker_JoinLeave_Symmetry(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	_, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	_, err = tr.HandleJoin("m1", bruno())
	req.NoError(err)

	outcome := tr.HandleLeave("m1", "p1")
	req.True(outcome.Removed)
	req.False(outcome.MeetingClosed)

	// Meeting still active with exactly Bruno present
	m, err := tr.Meeting("m1")
	req.NoError(err)
	req.Len(m.Participants, 1)
	req.Equal("p2", m.Participants[0].ID)

	// Ana can join again and counts as new
	rejoin, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	req.True(rejoin.NewParticipant)
}

func TestTracker_LastLeave_ClosesMeeting(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	_, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	tr.SetConversationReference("m1", ConversationReference{ConversationID: "c1"})

	outcome := tr.HandleLeave("m1", "p1")
	req.True(outcome.Removed)
	req.True(outcome.MeetingClosed)

	_, err = tr.Meeting("m1")
	req.ErrorIs(err, ErrMeetingNotFound)
	req.Empty(tr.ActiveMeetings())

	// Conversation reference is gone too
	_, ok := tr.ConversationReference("m1")
	req.False(ok)
}

func TestTracker_Recreate_GetsFreshStartTimestamp(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return base }

	_, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	first, err := tr.Meeting("m1")
	req.NoError(err)

	tr.HandleLeave("m1", "p1")

	tr.now = func() time.Time { return base.Add(time.Hour) }
	_, err = tr.HandleJoin("m1", ana())
	req.NoError(err)

	second, err := tr.Meeting("m1")
	req.NoError(err)
	req.True(second.StartedAt.After(first.StartedAt))
}

func TestTracker_Leave_ToleratesUnknowns(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	// Unknown meeting is a no-op
	outcome := tr.HandleLeave("nope", "p1")
	req.False(outcome.Removed)
	req.False(outcome.MeetingClosed)

	// Unknown participant in a known meeting is tolerated
	_, err := tr.HandleJoin("m1", ana())
	req.NoError(err)
	outcome = tr.HandleLeave("m1", "ghost")
	req.False(outcome.Removed)
	req.False(outcome.MeetingClosed)

	m, err := tr.Meeting("m1")
	req.NoError(err)
	req.Len(m.Participants, 1)
}

func TestTracker_ConversationReference_Upsert(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	// May arrive before any membership change
	tr.SetConversationReference("m1", ConversationReference{ConversationID: "c1"})
	ref, ok := tr.ConversationReference("m1")
	req.True(ok)
	req.Equal("c1", ref.ConversationID)

	tr.SetConversationReference("m1", ConversationReference{ConversationID: "c2"})
	ref, ok = tr.ConversationReference("m1")
	req.True(ok)
	req.Equal("c2", ref.ConversationID)
}

func TestTracker_SetOrganizerAndSubject(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	// Only applies to tracked meetings
	tr.SetOrganizer("m1", "org-1")
	tr.SetSubject("m1", "Daily")
	_, err := tr.Meeting("m1")
	req.ErrorIs(err, ErrMeetingNotFound)

	_, err = tr.HandleJoin("m1", ana())
	req.NoError(err)
	tr.SetOrganizer("m1", "org-1")
	tr.SetSubject("m1", "Daily")

	m, err := tr.Meeting("m1")
	req.NoError(err)
	req.Equal("org-1", m.OrganizerID)
	req.Equal("Daily", m.Subject)
}

func TestTracker_ActiveMeetings_SortedSnapshots(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	_, err := tr.HandleJoin("m2", ana())
	req.NoError(err)
	_, err = tr.HandleJoin("m1", bruno())
	req.NoError(err)

	meetings := tr.ActiveMeetings()
	req.Len(meetings, 2)
	req.Equal("m1", meetings[0].ID)
	req.Equal("m2", meetings[1].ID)

	// Mutating the snapshot must not touch tracker state
	meetings[0].Participants[0].DisplayName = "mutated"
	m, err := tr.Meeting("m1")
	req.NoError(err)
	req.Equal("Bruno", m.Participants[0].DisplayName)
}

func TestParseRole(t *testing.T) {
	req := require.New(t)
	req.Equal(RoleOrganizer, ParseRole("Organizer"))
	req.Equal(RoleCoorganizer, ParseRole("coorganizer"))
	req.Equal(RolePresenter, ParseRole(" Presenter "))
	req.Equal(RoleProducer, ParseRole("producer"))
	req.Equal(RoleAttendee, ParseRole("attendee"))
	req.Equal(RoleAttendee, ParseRole("something-else"))
	req.Equal(RoleAttendee, ParseRole(""))
}
