// Package claims converts backend claim records to client rows and back,
// and computes the minimal field patch sent on save.
package claims

import (
	"strings"

	"github.com/suya12/ocr-claim-review/internal/models"
)

// Internal field keys for recognized claim fields.
const (
	FieldInsuredName    = "insured_name"
	FieldInsuredSSN     = "insured_ssn"
	FieldInsuredContact = "insured_contact"
	FieldInsuredCarrier = "insured_carrier"
	FieldInsuredCompany = "insured_insurance_company"

	FieldBeneficiaryName    = "beneficiary_name"
	FieldBeneficiarySSN     = "beneficiary_ssn"
	FieldBeneficiaryContact = "beneficiary_contact"
	FieldBeneficiaryCarrier = "beneficiary_carrier"

	FieldPaymentBankName      = "payment_bank_name"
	FieldPaymentAccountNumber = "payment_account_number"
	FieldPaymentAccountHolder = "payment_account_holder"
)

// labelKeys translates the backend's localized field labels to internal
// field keys. Labels not listed here are skipped during mapping, never
// errored; the diff in ToFieldPatch iterates this same table, so only
// backend-recognized fields can ever appear in a patch.
var labelKeys = map[string]string{
	"피보험자 성명":           FieldInsuredName,
	"피보험자 주민등록번호":       FieldInsuredSSN,
	"피보험자 연락처":          FieldInsuredContact,
	"피보험자 통신사":          FieldInsuredCarrier,
	"피보험자 수익자청구 요청 보험사": FieldInsuredCompany,

	"수익자 성명":     FieldBeneficiaryName,
	"수익자 주민등록번호": FieldBeneficiarySSN,
	"수익자 연락처":    FieldBeneficiaryContact,
	"수익자 통신사":    FieldBeneficiaryCarrier,

	"보험금 지급 은행명":    FieldPaymentBankName,
	"보험금 지급 계좌번호":   FieldPaymentAccountNumber,
	"보험금 지급 예금주 성함": FieldPaymentAccountHolder,
}

// ToRow flattens a backend claim record into the client row shape.
// Identity, status and timestamp fields are copied verbatim; top-level flat
// values are kept, then each recognized detail label overwrites the mapped
// field and records its crop reference under the same key.
func ToRow(item models.ClaimRecord) models.ClaimRow {
	row := models.ClaimRow{
		ID:              item.ID.String(),
		ClientRequestID: item.ClientRequestID,
		Status:          item.Status,
		ImageURL:        item.ImageURL,
		CreatedAt:       item.CreatedAt,
		Fields:          make(map[string]string, len(labelKeys)),
	}

	row.Fields[FieldInsuredName] = item.InsuredName
	row.Fields[FieldInsuredSSN] = item.InsuredSSN
	row.Fields[FieldInsuredContact] = item.InsuredContact
	row.Fields[FieldInsuredCarrier] = item.InsuredCarrier
	row.Fields[FieldInsuredCompany] = item.InsuredCompany

	for _, d := range item.Details {
		key, ok := labelKeys[d.FieldName]
		if !ok {
			continue
		}
		row.Fields[key] = d.FieldText
		if d.CropImageURL != "" {
			if row.Crops == nil {
				row.Crops = make(map[string]string)
			}
			row.Crops[key] = d.CropImageURL
		}
	}
	return row
}

// Key derives the stable identity key of a row: explicit id, then external
// request id, then the national ID, then a composite of name, contact and
// insurer. Two rows represent the same claim iff their keys are equal.
func Key(r models.ClaimRow) string {
	if r.ID != "" {
		return r.ID
	}
	if r.ClientRequestID != "" {
		return r.ClientRequestID
	}
	if ssn := r.Field(FieldInsuredSSN); ssn != "" {
		return ssn
	}
	return r.Field(FieldInsuredName) + "|" + r.Field(FieldInsuredContact) + "|" + r.Field(FieldInsuredCompany)
}

// ImageSrc resolves a stored image reference to a URL the browser can load.
// Resolution order: absolute or data URL passthrough, server-relative path
// prefixed with the API base URL, then raw base64 wrapped as a PNG data URL.
func ImageSrc(val, baseURL string) string {
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "http://") || strings.HasPrefix(val, "https://") || strings.HasPrefix(val, "data:image/") {
		return val
	}
	if strings.HasPrefix(val, "/") {
		return strings.TrimRight(baseURL, "/") + val
	}
	return "data:image/png;base64," + val
}

// CropView is the payload of the crop-image comparison modal: the resolved
// crop URL next to the currently extracted text.
type CropView struct {
	Field string `json:"field"`
	Image string `json:"image"`
	Value string `json:"value"`
}

// Crop returns the crop view for one field of a row. It reports false when
// the row carries no crop reference for the field.
func Crop(r models.ClaimRow, fieldKey, baseURL string) (CropView, bool) {
	raw := r.Crops[fieldKey]
	if raw == "" {
		return CropView{}, false
	}
	return CropView{
		Field: fieldKey,
		Image: ImageSrc(raw, baseURL),
		Value: r.Field(fieldKey),
	}, true
}

// ToForm copies a row into a fully populated form. Missing row values
// become empty strings so the form never carries absent fields.
func ToForm(r models.ClaimRow) models.FormState {
	return models.FormState{
		InsuredName:    r.Field(FieldInsuredName),
		InsuredPhone:   r.Field(FieldInsuredContact),
		InsuredID:      r.Field(FieldInsuredSSN),
		InsuredCompany: r.Field(FieldInsuredCompany),
		InsuredCarrier: r.Field(FieldInsuredCarrier),

		BeneficiaryName:    r.Field(FieldBeneficiaryName),
		BeneficiaryPhone:   r.Field(FieldBeneficiaryContact),
		BeneficiaryID:      r.Field(FieldBeneficiarySSN),
		BeneficiaryCarrier: r.Field(FieldBeneficiaryCarrier),

		AccountBank:   r.Field(FieldPaymentBankName),
		AccountNumber: r.Field(FieldPaymentAccountNumber),
		AccountHolder: r.Field(FieldPaymentAccountHolder),
	}
}

// formFields maps each form field onto its record key. This is the
// form-key to record-key table used by the outbound overlay.
func formFields(f models.FormState) map[string]string {
	return map[string]string{
		FieldInsuredName:    f.InsuredName,
		FieldInsuredContact: f.InsuredPhone,
		FieldInsuredSSN:     f.InsuredID,
		FieldInsuredCompany: f.InsuredCompany,
		FieldInsuredCarrier: f.InsuredCarrier,

		FieldBeneficiaryName:    f.BeneficiaryName,
		FieldBeneficiaryContact: f.BeneficiaryPhone,
		FieldBeneficiarySSN:     f.BeneficiaryID,
		FieldBeneficiaryCarrier: f.BeneficiaryCarrier,

		FieldPaymentBankName:      f.AccountBank,
		FieldPaymentAccountNumber: f.AccountNumber,
		FieldPaymentAccountHolder: f.AccountHolder,
	}
}

// ToUpdatedRow overlays every form field onto a copy of the original row.
// Record fields outside the form mapping pass through unchanged.
func ToUpdatedRow(original models.ClaimRow, form models.FormState) models.ClaimRow {
	updated := original.Clone()
	for key, val := range formFields(form) {
		updated.Fields[key] = val
	}
	return updated
}

// ToFieldPatch computes the minimal, non-destructive diff between the
// original and updated rows, keyed by backend field label. A field is
// included only when its updated value is non-empty and differs from the
// original; clearing a field to empty is never sent.
func ToFieldPatch(original, updated models.ClaimRow) models.FieldPatch {
	patch := models.FieldPatch{}
	for label, key := range labelKeys {
		nv := updated.Field(key)
		if nv == "" || nv == original.Field(key) {
			continue
		}
		patch[label] = nv
	}
	return patch
}
