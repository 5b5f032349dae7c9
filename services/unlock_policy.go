package services

import (
	"math"

	"unveil_server/models"
)

// UnlockPolicy derives unlock eligibility, state, and progress purely
// from match fields. It owns the checks; the threshold value is
// configuration and never lives here.
//
// States move Locked → Eligible → RequestPending → Unlocked →
// {Dated | Archived}; the only backward step is a rejected request
// returning to Eligible.
type UnlockPolicy struct {
	Threshold int
}

// Eligible reports whether both participants have sent enough messages
// for an unlock request to be permitted.
func (p UnlockPolicy) Eligible(m *models.Match) bool {
	return m.MessageCountA >= p.Threshold && m.MessageCountB >= p.Threshold
}

// StateOf derives the state-machine position of a match.
func (p UnlockPolicy) StateOf(m *models.Match) models.UnlockState {
	switch {
	case m.IsDate:
		return models.StateDated
	case m.IsArchived:
		return models.StateArchived
	case m.IsUnlocked:
		return models.StateUnlocked
	case m.UnlockRequestedBy != "":
		return models.StateRequestPending
	case p.Eligible(m):
		return models.StateEligible
	default:
		return models.StateLocked
	}
}

// Progress is the completion percentage shown in the client's unlock
// meter. Derived on every read, never stored.
func (p UnlockPolicy) Progress(m *models.Match) int {
	if p.Threshold <= 0 {
		return 100
	}
	low := min(m.MessageCountA, m.MessageCountB)
	pct := int(math.Round(float64(low) / float64(p.Threshold) * 100))
	return min(pct, 100)
}

// Snapshot bundles state and progress for event payloads and API views.
func (p UnlockPolicy) Snapshot(m *models.Match) *models.UnlockSnapshot {
	return &models.UnlockSnapshot{State: p.StateOf(m), Progress: p.Progress(m)}
}
