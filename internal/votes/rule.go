// Package votes implements the vote accounting rule shared by the ledger
// and by clients that apply votes speculatively. Both sides must call Apply
// so that a locally predicted score always matches the authoritative one.
package votes

import (
	"fmt"

	"github.com/dmitrijs2005/voices/internal/common"
)

// Vote is a single voter's signed contribution to a post score.
type Vote int8

const (
	None Vote = 0
	Up   Vote = 1
	Down Vote = -1
)

// Validate reports whether v may be requested as a vote delta.
func (v Vote) Validate() error {
	if v != Up && v != Down {
		return fmt.Errorf("%w: vote delta must be +1 or -1, got %d", common.ErrorValidation, v)
	}
	return nil
}

func (v Vote) String() string {
	switch v {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Apply reconciles a voter's new intent with their prior vote.
//
// Repeating the prior vote retracts it. Any other request replaces the prior
// vote, so switching direction swings the score by two. The returned
// scoreDelta must be added to the post score and next stored as the voter's
// entry (None meaning the entry is removed).
func Apply(prior, delta Vote) (scoreDelta int, next Vote) {
	if prior == delta {
		return -int(delta), None
	}
	return int(delta) - int(prior), delta
}
