// Package models defines the domain records shared by the Voices server and
// client: accounts, posts and the instructions used to mutate them.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/voices/internal/common"
)

// Category classifies a proposal.
type Category string

const (
	CategoryHousing Category = "Housing"
	CategoryRoads   Category = "Roads"
	CategoryTransit Category = "Transit"
	CategoryParks   Category = "Parks"
	CategorySafety  Category = "Safety"
	CategoryOther   Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHousing,
	CategoryRoads,
	CategoryTransit,
	CategoryParks,
	CategorySafety,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCategory converts user input into a Category. An empty string or
// "all" yields nil, meaning no filter.
func ParseCategory(s string) (*Category, error) {
	if s == "" || s == "all" {
		return nil, nil
	}
	c := Category(s)
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, s)
	}
	return &c, nil
}

// SortOrder selects how a post listing is ordered.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortMostVoted SortOrder = "votes"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortNewest:
		return SortNewest, nil
	case SortMostVoted:
		return SortMostVoted, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q", common.ErrorValidation, s)
}
