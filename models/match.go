package models

// UnlockState is the derived position of a match in the photo-unlock flow.
type UnlockState string

const (
	StateLocked         UnlockState = "locked"
	StateEligible       UnlockState = "eligible"
	StateRequestPending UnlockState = "request_pending"
	StateUnlocked       UnlockState = "unlocked"
	StateDated          UnlockState = "dated"
	StateArchived       UnlockState = "archived"
)

// Match is the single point of truth for one mutually-liked pair.
// ParticipantA is always the lexicographically smaller user id, so the
// pair (a, b) and (b, a) map to the same record. Ratings are write-once
// and never serialized to clients.
type Match struct {
	MatchID           string  `dynamodbav:"matchId" json:"matchId"`
	PairKey           string  `dynamodbav:"pairKey" json:"-"`
	ParticipantA      string  `dynamodbav:"participantA" json:"participantA"`
	ParticipantB      string  `dynamodbav:"participantB" json:"participantB"`
	Score             float64 `dynamodbav:"score" json:"score"`
	MessageCountA     int     `dynamodbav:"messageCountA" json:"messageCountA"`
	MessageCountB     int     `dynamodbav:"messageCountB" json:"messageCountB"`
	IsUnlocked        bool    `dynamodbav:"isUnlocked" json:"isUnlocked"`
	UnlockRequestedBy string  `dynamodbav:"unlockRequestedBy,omitempty" json:"unlockRequestedBy,omitempty"`
	UnlockRequestedAt string  `dynamodbav:"unlockRequestedAt,omitempty" json:"unlockRequestedAt,omitempty"`
	UnlockAcceptedAt  string  `dynamodbav:"unlockAcceptedAt,omitempty" json:"unlockAcceptedAt,omitempty"`
	RatingA           *int    `dynamodbav:"ratingA,omitempty" json:"-"`
	RatingB           *int    `dynamodbav:"ratingB,omitempty" json:"-"`
	IsDate            bool    `dynamodbav:"isDate" json:"isDate"`
	IsArchived        bool    `dynamodbav:"isArchived" json:"isArchived"`
	CreatedAt         string  `dynamodbav:"createdAt" json:"createdAt"`
}

// PairKeyFor builds the order-independent identity key for two user ids.
func PairKeyFor(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}

// HasParticipant reports whether userID is one of the match's two users.
func (m *Match) HasParticipant(userID string) bool {
	return userID == m.ParticipantA || userID == m.ParticipantB
}

// Other returns the counterpart of userID in this match.
func (m *Match) Other(userID string) string {
	if userID == m.ParticipantA {
		return m.ParticipantB
	}
	return m.ParticipantA
}

// CountFor returns the message counter belonging to userID.
func (m *Match) CountFor(userID string) int {
	if userID == m.ParticipantA {
		return m.MessageCountA
	}
	return m.MessageCountB
}

// IncrementCount bumps the message counter belonging to userID.
func (m *Match) IncrementCount(userID string) {
	if userID == m.ParticipantA {
		m.MessageCountA++
		return
	}
	m.MessageCountB++
}

// RatingFor returns userID's rating, or nil if they have not rated yet.
func (m *Match) RatingFor(userID string) *int {
	if userID == m.ParticipantA {
		return m.RatingA
	}
	return m.RatingB
}

// SetRating records userID's rating. Write-once enforcement is the
// ledger's job; this is a plain field assignment.
func (m *Match) SetRating(userID string, value int) {
	if userID == m.ParticipantA {
		m.RatingA = &value
		return
	}
	m.RatingB = &value
}

// Terminal reports whether the match has reached a final state.
func (m *Match) Terminal() bool {
	return m.IsDate || m.IsArchived
}

// MatchCounters is the counter snapshot returned after a message send.
type MatchCounters struct {
	MessageCountA int `json:"messageCountA"`
	MessageCountB int `json:"messageCountB"`
}

// RatingOutcome is what a rater learns after submitting: the resulting
// state, and whether the match resolved. The counterpart's rating is
// deliberately absent.
type RatingOutcome struct {
	State UnlockState `json:"state"`
	Final bool        `json:"final"`
}
