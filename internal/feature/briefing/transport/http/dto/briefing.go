// Package dto defines data transfer objects for the briefing feature's HTTP transport layer.
package dto

import (
	"time"

	"criaconecta_backend/internal/feature/briefing/domain/entity"
)

// CreateBriefingReq represents the request body for POST /briefings.
type CreateBriefingReq struct {
	Title  string  `json:"title" binding:"required,max=200"`
	Budget float64 `json:"budget" binding:"gte=0"`
}

// BriefingItem represents a briefing in API responses.
type BriefingItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Budget    float64   `json:"budget"`
	Status    string    `json:"status"`
	CompanyID uint      `json:"company_id"`
	CreatorID *uint     `json:"creator_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromEntity converts a briefing entity to its API representation.
func FromEntity(b *entity.Briefing) BriefingItem {
	return BriefingItem{
		ID:        b.ID,
		Title:     b.Title,
		Budget:    b.Budget,
		Status:    string(b.Status),
		CompanyID: b.CompanyID,
		CreatorID: b.CreatorID,
		CreatedAt: b.CreatedAt,
	}
}

// CheckoutRes carries the provider checkout page URL the user must be sent to.
type CheckoutRes struct {
	RedirectURL string `json:"redirect_url"`
}

// ErrorRes is the generic error response body.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is the generic success response body.
type MessageRes struct {
	Message string `json:"message"`
}
