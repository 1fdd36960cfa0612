package models

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/votes"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Post is a problem/solution proposal.
//
// Address and Location are optional: an empty Address and a nil Location
// mean the field is absent and they are omitted from the JSON form.
type Post struct {
	ID          string                `json:"id"`
	Problem     string                `json:"problem"`
	Solution    string                `json:"solution"`
	Category    Category              `json:"category"`
	Votes       int                   `json:"votes"`
	CreatedAt   time.Time             `json:"created_at"`
	AuthorID    string                `json:"authorId"`
	AuthorEmail string                `json:"authorEmail"`
	VotesBy     map[string]votes.Vote `json:"votesBy"`
	Address     string                `json:"address,omitempty"`
	Location    *Location             `json:"location,omitempty"`
}

// NewPost carries the fields supplied when a post is created.
type NewPost struct {
	Problem     string
	Solution    string
	Category    Category
	Address     string
	Location    *Location
	AuthorID    string
	AuthorEmail string
}

// PostUpdate carries the author-editable fields. Problem, Solution and
// Category are always replaced; Address and Location follow their patch.
type PostUpdate struct {
	Problem  string          `json:"problem"`
	Solution string          `json:"solution"`
	Category Category        `json:"category"`
	Address  Patch[string]   `json:"address"`
	Location Patch[Location] `json:"location"`
}

// ValidateContent checks the fields shared by creation and editing.
func ValidateContent(problem, solution string, category Category) error {
	if strings.TrimSpace(problem) == "" || strings.TrimSpace(solution) == "" {
		return fmt.Errorf("%w: problem and solution fields are required", common.ErrorValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", common.ErrorValidation, category)
	}
	return nil
}

func (u PostUpdate) Validate() error {
	return ValidateContent(u.Problem, u.Solution, u.Category)
}

// NormalizeAddress maps a blank address to "", which is stored as absent.
func NormalizeAddress(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// Clone returns a deep copy so that callers can mutate it freely.
func (p *Post) Clone() *Post {
	c := *p
	c.VotesBy = maps.Clone(p.VotesBy)
	if c.VotesBy == nil {
		c.VotesBy = map[string]votes.Vote{}
	}
	if p.Location != nil {
		loc := *p.Location
		c.Location = &loc
	}
	return &c
}

// VoteOf returns the vote currently recorded for voterID, or votes.None.
func (p *Post) VoteOf(voterID string) votes.Vote {
	return p.VotesBy[voterID]
}

// ApplyVote reconciles voterID's new intent through votes.Apply.
func (p *Post) ApplyVote(voterID string, delta votes.Vote) error {
	if err := delta.Validate(); err != nil {
		return err
	}

	scoreDelta, next := votes.Apply(p.VotesBy[voterID], delta)
	p.Votes += scoreDelta

	if p.VotesBy == nil {
		p.VotesBy = map[string]votes.Vote{}
	}
	if next == votes.None {
		delete(p.VotesBy, voterID)
	} else {
		p.VotesBy[voterID] = next
	}
	return nil
}

// ApplyUpdate replaces the editable fields. It never touches votes,
// ownership or identity.
func (p *Post) ApplyUpdate(u PostUpdate) {
	p.Problem = u.Problem
	p.Solution = u.Solution
	p.Category = u.Category

	switch u.Address.Op() {
	case PatchSet:
		p.Address = NormalizeAddress(u.Address.Value())
	case PatchClear:
		p.Address = ""
	}

	switch u.Location.Op() {
	case PatchSet:
		loc := u.Location.Value()
		p.Location = &loc
	case PatchClear:
		p.Location = nil
	}
}
