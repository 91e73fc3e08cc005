// Package api contains types for the console API requests and responses.
package api

import (
	"github.com/suya12/ocr-claim-review/internal/bank"
	"github.com/suya12/ocr-claim-review/internal/models"
)

// ListResponse is the current list-view state consumed by the claim table.
type ListResponse struct {
	Loading bool              `json:"loading"`
	Active  int               `json:"active"`
	Items   []models.ClaimRow `json:"items"`
}

// ActiveRequest sets the hovered row index; -1 clears it.
type ActiveRequest struct {
	Index int `json:"index"`
}

// SessionResponse is the full edit-session state rendered by the compare
// view after every mutation.
type SessionResponse struct {
	SessionID  string            `json:"session_id"`
	Key        string            `json:"key"`
	Form       models.FormState  `json:"form"`
	Errors     map[string]string `json:"errors"`
	Suggestion *bank.Bank        `json:"suggestion,omitempty"`
	HistoryLen int               `json:"history_len"`
}

// SetFieldRequest carries one keystroke of a form field.
type SetFieldRequest struct {
	Value string `json:"value"`
}

// SaveResponse hands the updated claim back to the list view after a
// successful save.
type SaveResponse struct {
	OK    bool            `json:"ok"`
	Claim models.ClaimRow `json:"claim"`
}
