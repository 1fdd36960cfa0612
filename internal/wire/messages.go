package wire

import (
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

// CredentialsRequest is sent by both Register and Login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Account     models.Account `json:"account"`
	AccessToken string         `json:"access_token"`
}

// ListPostsRequest selects the order and, unless Category is empty or
// "all", the category of the listing.
type ListPostsRequest struct {
	Sort     models.SortOrder `json:"sort"`
	Category string           `json:"category,omitempty"`
}

type ListPostsResponse struct {
	Posts []*models.Post `json:"posts"`
}

type CreatePostRequest struct {
	Problem  string           `json:"problem"`
	Solution string           `json:"solution"`
	Category models.Category  `json:"category"`
	Address  string           `json:"address,omitempty"`
	Location *models.Location `json:"location,omitempty"`
}

type UpdatePostRequest struct {
	ID     string            `json:"id"`
	Update models.PostUpdate `json:"update"`
}

type DeletePostRequest struct {
	ID string `json:"id"`
}

type DeletePostResponse struct{}

type ApplyVoteRequest struct {
	ID    string     `json:"id"`
	Delta votes.Vote `json:"delta"`
}

// PostResponse carries the canonical copy of a post after a mutation.
type PostResponse struct {
	Post *models.Post `json:"post"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
