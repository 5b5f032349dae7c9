package models

// Message is one entry in a match's append-only log. Messages are
// immutable once written; an edit or delete is a new message carrying
// ReplacesOrdinal, so catch-up by ordinal never observes a mutation.
type Message struct {
	MatchID         string `dynamodbav:"matchId" json:"matchId"`
	Ordinal         int64  `dynamodbav:"ordinal" json:"ordinal"`
	MessageID       string `dynamodbav:"messageId" json:"messageId"`
	SenderID        string `dynamodbav:"senderId" json:"senderId"`
	Content         string `dynamodbav:"content" json:"content"`
	AISuggested     bool   `dynamodbav:"aiSuggested" json:"aiSuggested"`
	ReplacesOrdinal int64  `dynamodbav:"replacesOrdinal,omitempty" json:"replacesOrdinal,omitempty"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// Channel holds the per-match ordinal counter and both read cursors.
// One row per match; cursors follow the same A/B orientation as Match.
type Channel struct {
	MatchID     string `dynamodbav:"matchId" json:"matchId"`
	LastOrdinal int64  `dynamodbav:"lastOrdinal" json:"lastOrdinal"`
	ReadA       int64  `dynamodbav:"readA" json:"readA"`
	ReadB       int64  `dynamodbav:"readB" json:"readB"`
}

// CursorFor returns userID's last-read ordinal. The caller guarantees
// userID is a participant; orientation comes from the match record.
func (c *Channel) CursorFor(m *Match, userID string) int64 {
	if userID == m.ParticipantA {
		return c.ReadA
	}
	return c.ReadB
}

// AdvanceCursor moves userID's read cursor forward. Lower values are a
// no-op, never an error — cursors are monotonic.
func (c *Channel) AdvanceCursor(m *Match, userID string, upto int64) bool {
	if userID == m.ParticipantA {
		if upto <= c.ReadA {
			return false
		}
		c.ReadA = upto
		return true
	}
	if upto <= c.ReadB {
		return false
	}
	c.ReadB = upto
	return true
}

// MessagePage is one restartable slice of a channel's log.
type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}
