package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/lib/pq"
)

// News represents the complete news entity in the database.
// Images holds ordered storage references ("news/<filename>"); the
// version column drives optimistic concurrency on every update.
type News struct {
	ObjectId    uuid.UUID `json:"objectId" db:"id"`
	OwnerUserId uuid.UUID `json:"ownerUserId" db:"owner_user_id"`

	Title   string         `json:"title" db:"title"`
	Excerpt string         `json:"excerpt" db:"excerpt"`
	Body    string         `json:"body" db:"body"`
	Images  pq.StringArray `json:"images" db:"images"`

	Version int64 `json:"version" db:"version"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasImage reports whether ref is currently attached.
func (n *News) HasImage(ref string) bool {
	for _, existing := range n.Images {
		if existing == ref {
			return true
		}
	}
	return false
}

// CreateNewsRequest represents the request payload for creating a news item
type CreateNewsRequest struct {
	Title   string `json:"title" form:"title"`
	Excerpt string `json:"excerpt" form:"excerpt"`
	Body    string `json:"body" form:"body"`
}

// UpdateNewsRequest represents the request payload for updating a news
// item. Nil fields are left untouched (PATCH merge). Images are never
// modified through this request.
type UpdateNewsRequest struct {
	Title   *string `json:"title,omitempty"`
	Excerpt *string `json:"excerpt,omitempty"`
	Body    *string `json:"body,omitempty"`
}

// NewsQueryFilter represents query filters for listing news
type NewsQueryFilter struct {
	OwnerUserId *uuid.UUID `schema:"-"`
	Search      string     `schema:"search"`
	Page        int        `schema:"page"`
	Limit       int        `schema:"limit"`
}

// NewsResponse represents the API response for a news item
type NewsResponse struct {
	ObjectId    string   `json:"objectId"`
	OwnerUserId string   `json:"ownerUserId"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Body        string   `json:"body"`
	Images      []string `json:"images"`
	ImageURLs   []string `json:"imageUrls"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// NewsListResponse represents the response for listing news
type NewsListResponse struct {
	News       []NewsResponse `json:"news"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	HasMore    bool           `json:"hasMore"`
}

// CreateNewsResponse represents the response after creating a news item
type CreateNewsResponse struct {
	ObjectId string `json:"objectId"`
	Message  string `json:"message,omitempty"`
}

// ToResponse converts a News entity into its API representation.
// publicRoute is the static route uploads are served under.
func (n *News) ToResponse(publicRoute string) NewsResponse {
	images := make([]string, len(n.Images))
	urls := make([]string, len(n.Images))
	for i, ref := range n.Images {
		images[i] = ref
		urls[i] = publicRoute + "/" + ref
	}

	return NewsResponse{
		ObjectId:    n.ObjectId.String(),
		OwnerUserId: n.OwnerUserId.String(),
		Title:       n.Title,
		Excerpt:     n.Excerpt,
		Body:        n.Body,
		Images:      images,
		ImageURLs:   urls,
		CreatedAt:   n.CreatedAt.Unix(),
		UpdatedAt:   n.UpdatedAt.Unix(),
	}
}
