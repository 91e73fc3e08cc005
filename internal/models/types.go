// Package models defines the data models used in the application.
package models

import "encoding/json"

// ClaimStatus represents the OCR processing status of a claim as reported
// by the backend.
type ClaimStatus string

// Possible values for ClaimStatus
const (
	StatusProcessing ClaimStatus = "PROCESSING"
	StatusSuccess    ClaimStatus = "SUCCESS"
	StatusFailed     ClaimStatus = "FAILED"
	StatusConfirmed  ClaimStatus = "confirmed"
)

// ClaimDetail is one OCR-extracted field inside a backend claim record.
// FieldName carries the localized (Korean) field label.
type ClaimDetail struct {
	FieldName    string  `json:"field_name"`
	FieldText    string  `json:"field_text"`
	Confidence   float64 `json:"confidence,omitempty"`
	CropImageURL string  `json:"crop_image_url,omitempty"`
}

// ClaimRecord is the canonical server shape of a claim as returned by
// GET /claims. Any field may be absent; the backend may send recognized
// values either flat at the top level or nested under details.
type ClaimRecord struct {
	ID              json.Number `json:"id,omitempty"`
	ClientRequestID string      `json:"client_request_id,omitempty"`
	Status          string      `json:"status,omitempty"`
	ImageFormat     string      `json:"image_format,omitempty"`
	ImageURL        string      `json:"image_url,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`

	// Flat top-level fields some backend revisions send directly.
	InsuredName    string `json:"insured_name,omitempty"`
	InsuredSSN     string `json:"insured_ssn,omitempty"`
	InsuredContact string `json:"insured_contact,omitempty"`
	InsuredCarrier string `json:"insured_carrier,omitempty"`
	InsuredCompany string `json:"insured_insurance_company,omitempty"`

	Details []ClaimDetail `json:"details,omitempty"`
}

// ClaimRow is the flattened client-side projection of a ClaimRecord used by
// the list view. Fields holds recognized values keyed by internal field key;
// Crops holds the raw crop-image reference per field key.
type ClaimRow struct {
	ID              string            `json:"id,omitempty"`
	ClientRequestID string            `json:"client_request_id,omitempty"`
	Status          string            `json:"status,omitempty"`
	ImageURL        string            `json:"image_url,omitempty"`
	CreatedAt       string            `json:"created_at,omitempty"`
	Fields          map[string]string `json:"fields"`
	Crops           map[string]string `json:"crops,omitempty"`
}

// Field returns the value stored under key, or "" when absent.
func (r ClaimRow) Field(key string) string {
	return r.Fields[key]
}

// Clone returns a deep copy of the row. Rollback and edit sessions rely on
// copies so a later mutation cannot reach back into the list.
func (r ClaimRow) Clone() ClaimRow {
	c := r
	c.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	if r.Crops != nil {
		c.Crops = make(map[string]string, len(r.Crops))
		for k, v := range r.Crops {
			c.Crops[k] = v
		}
	}
	return c
}

// FormState is the in-progress edited view of a single claim. Field names
// follow the client-local convention; every field is always populated
// (missing source values default to the empty string).
type FormState struct {
	InsuredName    string `json:"insuredName"`
	InsuredPhone   string `json:"insuredPhone"`
	InsuredID      string `json:"insuredId"`
	InsuredCompany string `json:"insuredCompany"`
	InsuredCarrier string `json:"insuredCarrier"`

	BeneficiaryName    string `json:"beneficiaryName"`
	BeneficiaryPhone   string `json:"beneficiaryPhone"`
	BeneficiaryID      string `json:"beneficiaryId"`
	BeneficiaryCarrier string `json:"beneficiaryCarrier"`

	AccountBank   string `json:"accountBank"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// FieldPatch maps backend field labels to new values. It contains only
// fields whose value changed and is non-empty; it is the unit sent on save.
type FieldPatch map[string]string
