// README: Common value objects shared across modules.
package types

import "strings"

// ID is an opaque entity identifier.
type ID string

// Money is an integer amount in the smallest practical unit (whole rupees
// for the canteen menu) tagged with a currency code.
type Money struct {
	Amount   int64  `json:"amount" firestore:"amount"`
	Currency string `json:"currency" firestore:"currency"`
}

const DefaultCurrency = "INR"

// NormalizePID canonicalizes a student identifier: trimmed, upper-cased.
// Orders and the student ledger join on this form.
func NormalizePID(s string) ID {
	return ID(strings.ToUpper(strings.TrimSpace(s)))
}
