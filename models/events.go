package models

// EventType identifies a domain event on a match's stream.
type EventType string

const (
	EventMatchCreated    EventType = "match.created"
	EventMessageAppended EventType = "message.appended"
	EventMessageSeen     EventType = "message.seen"
	EventUnlockRequested EventType = "unlock.requested"
	EventUnlocked        EventType = "unlocked"
	EventDateFormed      EventType = "date.formed"
	EventMatchArchived   EventType = "match.archived"
	EventStreakMilestone EventType = "streak.milestone"
)

// UnlockSnapshot is the derived unlock view attached to events so
// subscribed clients can render progress without a follow-up fetch.
type UnlockSnapshot struct {
	State    UnlockState `json:"state"`
	Progress int         `json:"progress"`
}

// DomainEvent is what services publish and sinks (socket hub,
// notification dispatcher) consume. Everything is scoped to one match.
type DomainEvent struct {
	Type       EventType       `json:"type"`
	MatchID    string          `json:"matchId"`
	ActorID    string          `json:"actorId,omitempty"`
	Message    *Message        `json:"message,omitempty"`
	Unlock     *UnlockSnapshot `json:"unlock,omitempty"`
	ReadUpto   int64           `json:"readUpto,omitempty"`
	StreakDays int             `json:"streakDays,omitempty"`
	OccurredAt string          `json:"occurredAt"`

	// Recipients is push routing only; it never reaches the wire.
	Recipients []string `json:"-"`
}

// NotificationType is the wire enum of the external push sink.
type NotificationType string

const (
	NotifyNewMatch        NotificationType = "new_match"
	NotifyNewMessage      NotificationType = "new_message"
	NotifyMessageSeen     NotificationType = "message_seen"
	NotifyPhotoUnlocked   NotificationType = "photo_unlocked"
	NotifyStreakMilestone NotificationType = "streak_milestone"
	NotifyStreakAtRisk    NotificationType = "streak_at_risk"
	NotifyProfileView     NotificationType = "profile_view"
	NotifyPoke            NotificationType = "poke"
	NotifyAnnouncement    NotificationType = "announcement"
)
