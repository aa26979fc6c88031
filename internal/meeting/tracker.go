package meeting

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// UnknownOrganizer is the placeholder organizer id used until the
// channel reveals the real one.
const UnknownOrganizer = "unknown"

// ErrMeetingNotFound is returned when a lookup references a meeting id
// that is not currently tracked.
var ErrMeetingNotFound = errors.New("meeting not found")

// JoinOutcome reports what HandleJoin did.
type JoinOutcome struct {
	// NewParticipant is true when the participant was not already
	// present — a duplicate join (transient reconnect) leaves it false.
	NewParticipant bool

	// Meeting is a snapshot of the meeting after the join was applied.
	Meeting Meeting
}

// LeaveOutcome reports what HandleLeave did.
type LeaveOutcome struct {
	// Removed is true when the participant was actually present.
	Removed bool

	// MeetingClosed is true when the leave emptied the meeting and its
	// state (meeting, index, conversation reference) was discarded.
	MeetingClosed bool
}

// Tracker maintains the set of known meetings and, per meeting, the set
// of currently-present participants. It is the sole mutator of meeting
// state: all writes happen under one mutex so that join, leave and
// cleanup on the same meeting id are linearized.
type Tracker struct {
	mu       sync.Mutex
	meetings map[string]*Meeting
	members  map[string]map[string]struct{} // meeting id -> participant ids
	refs     map[string]ConversationReference

	now func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		meetings: make(map[string]*Meeting),
		members:  make(map[string]map[string]struct{}),
		refs:     make(map[string]ConversationReference),
		now:      time.Now,
	}
}

// HandleJoin records a participant joining a meeting. An unseen meeting
// id lazily creates the meeting. A join for an id already present is a
// rejoin: no state changes and NewParticipant is false, so the caller
// never greets the same participant twice per meeting lifetime.
func (t *Tracker) HandleJoin(meetingID string, p Participant) (JoinOutcome, error) {
	if meetingID == "" {
		return JoinOutcome{}, fmt.Errorf("handle join: meeting id is required")
	}
	if p.ID == "" {
		return JoinOutcome{}, fmt.Errorf("handle join: participant id is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.meetings[meetingID]
	if !ok {
		m = &Meeting{
			ID:          meetingID,
			OrganizerID: UnknownOrganizer,
			StartedAt:   t.now(),
		}
		t.meetings[meetingID] = m
		t.members[meetingID] = make(map[string]struct{})
	}

	if _, rejoin := t.members[meetingID][p.ID]; rejoin {
		return JoinOutcome{NewParticipant: false, Meeting: snapshot(m)}, nil
	}

	if p.JoinedAt.IsZero() {
		p.JoinedAt = t.now()
	}
	t.members[meetingID][p.ID] = struct{}{}
	m.Participants = append(m.Participants, p)
	t.checkConsistency(meetingID, m)

	return JoinOutcome{NewParticipant: true, Meeting: snapshot(m)}, nil
}

// HandleLeave records a participant leaving a meeting. Unknown meetings
// and unknown participants are tolerated. When the last participant
// leaves, the meeting and everything keyed by its id is discarded; a
// later join recreates it from scratch with a fresh start timestamp.
func (t *Tracker) HandleLeave(meetingID, participantID string) LeaveOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.meetings[meetingID]
	if !ok {
		return LeaveOutcome{}
	}

	_, present := t.members[meetingID][participantID]
	delete(t.members[meetingID], participantID)
	m.Participants = lo.Filter(m.Participants, func(p Participant, _ int) bool {
		return p.ID != participantID
	})
	t.checkConsistency(meetingID, m)

	if len(m.Participants) == 0 {
		delete(t.meetings, meetingID)
		delete(t.members, meetingID)
		delete(t.refs, meetingID)
		return LeaveOutcome{Removed: present, MeetingClosed: true}
	}
	return LeaveOutcome{Removed: present}
}

// Meeting returns a snapshot of one tracked meeting.
func (t *Tracker) Meeting(meetingID string) (Meeting, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.meetings[meetingID]
	if !ok {
		return Meeting{}, ErrMeetingNotFound
	}
	return snapshot(m), nil
}

// ActiveMeetings returns snapshots of all tracked meetings, ordered by id.
func (t *Tracker) ActiveMeetings() []Meeting {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Meeting, 0, len(t.meetings))
	for _, m := range t.meetings {
		out = append(out, snapshot(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetConversationReference stores the handle for proactive delivery into
// a meeting's chat. It may arrive before or after any membership change
// and is independent of the join/leave lifecycle.
func (t *Tracker) SetConversationReference(meetingID string, ref ConversationReference) {
	if meetingID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refs[meetingID] = ref
}

// ConversationReference returns the stored handle for a meeting, if any.
func (t *Tracker) ConversationReference(meetingID string) (ConversationReference, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ref, ok := t.refs[meetingID]
	return ref, ok
}

// SetOrganizer records the organizer id once the channel reveals it.
// It only applies to a currently tracked meeting.
func (t *Tracker) SetOrganizer(meetingID, organizerID string) {
	if organizerID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.meetings[meetingID]; ok {
		m.OrganizerID = organizerID
	}
}

// SetSubject records the meeting subject once the channel reveals it.
func (t *Tracker) SetSubject(meetingID, subject string) {
	if subject == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.meetings[meetingID]; ok {
		m.Subject = subject
	}
}

// checkConsistency verifies the membership index matches the participant
// list. A divergence means a mutation bypassed the tracker; it is logged
// as an internal-consistency bug, never surfaced to callers.
func (t *Tracker) checkConsistency(meetingID string, m *Meeting) {
	if len(t.members[meetingID]) == len(m.Participants) {
		return
	}
	slog.Error("membership index diverged from participant list",
		"meeting_id", meetingID,
		"index_size", len(t.members[meetingID]),
		"list_size", len(m.Participants))
}

// snapshot copies a meeting so callers never alias tracker-owned state.
func snapshot(m *Meeting) Meeting {
	out := *m
	out.Participants = make([]Participant, len(m.Participants))
	copy(out.Participants, m.Participants)
	return out
}
