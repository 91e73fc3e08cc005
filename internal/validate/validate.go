// Package validate provides keystroke validation and commit-time formatting
// for claim form fields.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

// Kind classifies a form field. The kind is attached to each field
// definition at construction time; nothing is inferred from field names.
type Kind int

// Field kinds.
const (
	KindText Kind = iota
	KindPhone
	KindNationalID
)

// Digit-count limits per constrained kind.
const (
	phoneDigits      = 11
	nationalIDDigits = 13
)

// Inline validation messages shown next to the input.
const (
	MsgInvalidChar   = "숫자와 '-'만 입력"
	MsgTooManyDigits = "자리수 이상"
	MsgTooFewDigits  = "자리수 부족"
)

// Composite-format failures reported by the save protocol.
var (
	ErrContactFormat    = errors.New("연락처 형식이 올바르지 않습니다. (예: 010-1234-5678)")
	ErrNationalIDFormat = errors.New("주민등록번호 형식이 올바르지 않습니다. (예: 900115-1234567)")
)

var (
	allowedRx    = regexp.MustCompile(`^[\d\-\s]*$`)
	digitRx      = regexp.MustCompile(`\d`)
	contactRx    = regexp.MustCompile(`^010-\d{4}-\d{4}$`)
	nationalIDRx = regexp.MustCompile(`^\d{6}-\d{7}$`)
)

// digits returns only the digit characters of s.
func digits(s string) string {
	return strings.Join(digitRx.FindAllString(s, -1), "")
}

// Check validates value for the given kind and returns an inline error
// message, or "" when the value is acceptable. The character-set check runs
// before any digit-count check. Runs on every keystroke, so partial input
// legitimately reports "too few digits" until enough digits are typed.
func Check(kind Kind, value string) string {
	if kind == KindText {
		return ""
	}
	if !allowedRx.MatchString(value) {
		return MsgInvalidChar
	}
	limit := phoneDigits
	if kind == KindNationalID {
		limit = nationalIDDigits
	}
	switch n := len(digits(value)); {
	case n > limit:
		return MsgTooManyDigits
	case n < limit:
		return MsgTooFewDigits
	}
	return ""
}

// FormatOnCommit regroups the digits of value on focus loss. Empty values
// are returned unchanged; surplus digits are truncated at the kind's limit.
// Re-applying the formatter to its own output is idempotent.
func FormatOnCommit(kind Kind, value string) string {
	if value == "" {
		return value
	}
	switch kind {
	case KindPhone:
		return formatPhone(value)
	case KindNationalID:
		return formatNationalID(value)
	}
	return value
}

// formatPhone groups an 11-digit phone number as 3-4-4, degrading
// gracefully while fewer digits are present.
func formatPhone(v string) string {
	d := digits(v)
	if len(d) > phoneDigits {
		d = d[:phoneDigits]
	}
	switch {
	case len(d) < 4:
		return d
	case len(d) < 8:
		return d[:3] + "-" + d[3:]
	}
	return d[:3] + "-" + d[3:7] + "-" + d[7:]
}

// formatNationalID groups a 13-digit national ID as 6-7.
func formatNationalID(v string) string {
	d := digits(v)
	if len(d) > nationalIDDigits {
		d = d[:nationalIDDigits]
	}
	if len(d) <= 6 {
		return d
	}
	return d[:6] + "-" + d[6:]
}

// CheckContact verifies the committed 010-XXXX-XXXX contact format. The
// save protocol runs this irrespective of per-field error state.
func CheckContact(v string) error {
	if !contactRx.MatchString(v) {
		return ErrContactFormat
	}
	return nil
}

// CheckNationalID verifies the committed XXXXXX-XXXXXXX national ID format.
func CheckNationalID(v string) error {
	if !nationalIDRx.MatchString(v) {
		return ErrNationalIDFormat
	}
	return nil
}
