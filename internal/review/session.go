// Package review manages claim edit sessions: field mutation with
// validation and undo, and the confirmation/patch save protocol.
package review

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/suya12/ocr-claim-review/internal/bank"
	"github.com/suya12/ocr-claim-review/internal/claims"
	"github.com/suya12/ocr-claim-review/internal/history"
	"github.com/suya12/ocr-claim-review/internal/models"
	"github.com/suya12/ocr-claim-review/internal/validate"
)

var (
	// ErrValidation blocks a save while any field error is live or a
	// composite format check fails. No network call is made.
	ErrValidation = errors.New("validation failed")
	// ErrNoIdentity is the precondition failure when a claim carries
	// neither an external request id nor an internal id to address the
	// patch request. Reported distinctly from a network failure.
	ErrNoIdentity = errors.New("claim has no addressable identity")
	// ErrUnknownField is returned for a field name outside the form.
	ErrUnknownField = errors.New("unknown form field")
)

// Backend is the slice of the backend client the save protocol needs.
type Backend interface {
	PatchFields(ctx context.Context, requestID string, patch models.FieldPatch) error
}

// fieldDef ties a form field to its validation kind and its accessors. The
// kind is an explicit tag, not derived from the field name.
type fieldDef struct {
	kind validate.Kind
	get  func(*models.FormState) string
	set  func(*models.FormState, string)
}

// fieldDefs enumerates every editable form field.
var fieldDefs = map[string]fieldDef{
	"insuredName": {validate.KindText,
		func(f *models.FormState) string { return f.InsuredName },
		func(f *models.FormState, v string) { f.InsuredName = v }},
	"insuredPhone": {validate.KindPhone,
		func(f *models.FormState) string { return f.InsuredPhone },
		func(f *models.FormState, v string) { f.InsuredPhone = v }},
	"insuredId": {validate.KindNationalID,
		func(f *models.FormState) string { return f.InsuredID },
		func(f *models.FormState, v string) { f.InsuredID = v }},
	"insuredCompany": {validate.KindText,
		func(f *models.FormState) string { return f.InsuredCompany },
		func(f *models.FormState, v string) { f.InsuredCompany = v }},
	"insuredCarrier": {validate.KindText,
		func(f *models.FormState) string { return f.InsuredCarrier },
		func(f *models.FormState, v string) { f.InsuredCarrier = v }},
	"beneficiaryName": {validate.KindText,
		func(f *models.FormState) string { return f.BeneficiaryName },
		func(f *models.FormState, v string) { f.BeneficiaryName = v }},
	"beneficiaryPhone": {validate.KindPhone,
		func(f *models.FormState) string { return f.BeneficiaryPhone },
		func(f *models.FormState, v string) { f.BeneficiaryPhone = v }},
	"beneficiaryId": {validate.KindNationalID,
		func(f *models.FormState) string { return f.BeneficiaryID },
		func(f *models.FormState, v string) { f.BeneficiaryID = v }},
	"beneficiaryCarrier": {validate.KindText,
		func(f *models.FormState) string { return f.BeneficiaryCarrier },
		func(f *models.FormState, v string) { f.BeneficiaryCarrier = v }},
	"accountBank": {validate.KindText,
		func(f *models.FormState) string { return f.AccountBank },
		func(f *models.FormState, v string) { f.AccountBank = v }},
	"accountNumber": {validate.KindText,
		func(f *models.FormState) string { return f.AccountNumber },
		func(f *models.FormState, v string) { f.AccountNumber = v }},
	"accountHolder": {validate.KindText,
		func(f *models.FormState) string { return f.AccountHolder },
		func(f *models.FormState, v string) { f.AccountHolder = v }},
}

// constrainedFields are the fields whose errors are tracked and recomputed
// after undo.
var constrainedFields = []string{"insuredPhone", "insuredId", "beneficiaryPhone", "beneficiaryId"}

// Session is the edit state of a single claim between opening the compare
// view and save or cancel.
type Session struct {
	ID       string
	Original models.ClaimRow

	mu         sync.Mutex
	form       models.FormState
	errors     map[string]string
	hist       history.Stack
	suggestion *bank.Bank
}

// NewSession copies a list row into a fresh edit session.
func NewSession(row models.ClaimRow) *Session {
	s := &Session{
		ID:       ulid.Make().String(),
		Original: row.Clone(),
		form:     claims.ToForm(row),
		errors:   make(map[string]string, len(constrainedFields)),
	}
	for _, name := range constrainedFields {
		s.errors[name] = ""
	}
	return s
}

// Form returns the current form snapshot.
func (s *Session) Form() models.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Errors returns a copy of the current per-field error messages.
func (s *Session) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Suggestion returns the bank suggestion derived from the account number,
// or nil when there is none.
func (s *Session) Suggestion() *bank.Bank {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suggestion == nil {
		return nil
	}
	b := *s.suggestion
	return &b
}

// HistoryLen reports how many undo steps are available.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Len()
}

// SetField applies one keystroke: the pre-mutation snapshot is pushed,
// the value is stored, and the field is revalidated. Editing the account
// number also recomputes the bank suggestion.
func (s *Session) SetField(name, value string) error {
	def, ok := fieldDefs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.Push(s.form)
	def.set(&s.form, value)
	if def.kind != validate.KindText {
		s.errors[name] = validate.Check(def.kind, value)
	}
	if name == "accountNumber" {
		s.refreshSuggestion()
	}
	return nil
}

// CommitField reformats a field on focus loss. Empty values are never
// touched, and no history snapshot is pushed: formatting does not change
// what the user typed, only how it is grouped.
func (s *Session) CommitField(name string) error {
	def, ok := fieldDefs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := def.get(&s.form)
	if cur == "" {
		return nil
	}
	def.set(&s.form, validate.FormatOnCommit(def.kind, cur))
	return nil
}

// CopyInsured is the bulk edit copying insured identity fields onto the
// beneficiary. One snapshot is pushed for the whole operation and the
// copied constrained fields are revalidated.
func (s *Session) CopyInsured() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.Push(s.form)
	s.form.BeneficiaryName = s.form.InsuredName
	s.form.BeneficiaryPhone = s.form.InsuredPhone
	s.form.BeneficiaryID = s.form.InsuredID
	s.errors["beneficiaryPhone"] = validate.Check(validate.KindPhone, s.form.BeneficiaryPhone)
	s.errors["beneficiaryId"] = validate.Check(validate.KindNationalID, s.form.BeneficiaryID)
}

// ApplySuggestion overwrites the bank-name field with the current
// suggestion, pushing a history snapshot first.
func (s *Session) ApplySuggestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suggestion == nil {
		return errors.New("no bank suggestion")
	}
	s.hist.Push(s.form)
	s.form.AccountBank = s.suggestion.Name
	return nil
}

// Undo restores the previous snapshot and recomputes the validation errors
// of every constrained field and the bank suggestion from the restored
// values, so nothing stale survives the rollback.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, err := s.hist.Undo()
	if err != nil {
		return err
	}
	s.form = last
	for _, name := range constrainedFields {
		def := fieldDefs[name]
		s.errors[name] = validate.Check(def.kind, def.get(&s.form))
	}
	s.refreshSuggestion()
	return nil
}

// refreshSuggestion recomputes the bank suggestion from the account number.
// Caller holds s.mu.
func (s *Session) refreshSuggestion() {
	if b, ok := bank.Resolve(s.form.AccountNumber); ok {
		s.suggestion = &b
	} else {
		s.suggestion = nil
	}
}

// Save runs the confirmation/patch protocol:
//
//  1. abort on any live field error,
//  2. re-check the composite contact and national ID formats,
//  3. build the updated row and the minimal field patch,
//  4. an empty patch is a successful no-op save,
//  5. address the request by external request id, falling back to the
//     internal id; missing both is a precondition failure,
//  6. send the patch; failure leaves local state untouched.
//
// The returned row is the updated claim handed back to the list view.
func (s *Session) Save(ctx context.Context, b Backend) (models.ClaimRow, error) {
	s.mu.Lock()
	form := s.form
	for name, msg := range s.errors {
		if msg != "" {
			s.mu.Unlock()
			return models.ClaimRow{}, fmt.Errorf("%w: %s: %s", ErrValidation, name, msg)
		}
	}
	s.mu.Unlock()

	if err := validate.CheckContact(form.InsuredPhone); err != nil {
		return models.ClaimRow{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := validate.CheckNationalID(form.InsuredID); err != nil {
		return models.ClaimRow{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	updated := claims.ToUpdatedRow(s.Original, form)
	patch := claims.ToFieldPatch(s.Original, updated)
	if len(patch) == 0 {
		return updated, nil
	}

	requestID := s.Original.ClientRequestID
	if requestID == "" {
		requestID = s.Original.ID
	}
	if requestID == "" {
		return models.ClaimRow{}, ErrNoIdentity
	}

	if err := b.PatchFields(ctx, requestID, patch); err != nil {
		return models.ClaimRow{}, err
	}
	return updated, nil
}
