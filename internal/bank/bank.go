// Package bank maps account-number prefixes to domestic bank names.
package bank

import "strings"

// Bank is a resolved bank suggestion.
type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// codeNames maps the 3-digit domestic bank code to the bank name.
var codeNames = map[string]string{
	"002": "산업은행",
	"003": "기업은행",
	"004": "국민은행",
	"005": "하나은행", // 구 외환 포함
	"007": "수협은행",
	"008": "수출입은행",
	"011": "농협은행",
	"020": "우리은행",
	"023": "SC제일은행",
	"027": "씨티은행",
	"031": "대구은행",
	"032": "부산은행",
	"034": "광주은행",
	"035": "제주은행",
	"037": "전북은행",
	"039": "경남은행",
	"045": "새마을금고",
	"048": "신협",
	"050": "저축은행",
	"064": "산림조합",
	"071": "우체국",
	"081": "하나은행",
	"088": "신한은행",
	"089": "케이뱅크",
	"090": "카카오뱅크",
	"092": "토스뱅크",
}

// digits strips every non-digit character from s.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve guesses the bank from the first three digits of an account
// number. It reports false when fewer than three digits are present or the
// prefix is not a known bank code.
func Resolve(accountNumber string) (Bank, bool) {
	d := digits(accountNumber)
	if len(d) < 3 {
		return Bank{}, false
	}
	prefix := d[:3]
	name, ok := codeNames[prefix]
	if !ok {
		return Bank{}, false
	}
	return Bank{Code: prefix, Name: name}, true
}
