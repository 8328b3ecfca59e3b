// Package domain defines domain-level errors for the stocks feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for the load-validate-query engine.
// These represent business outcomes and are handled by upper layers;
// only ErrStoreUnavailable should end a caller's session.
var (
	// ErrNoDataForTicker indicates an analytic found zero rows for the
	// requested ticker.
	ErrNoDataForTicker = errors.New("no data for ticker")

	// ErrInvalidDate indicates a date argument was not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrDuplicateKey indicates a (Date, Ticker) pair that already exists
	// in the store. The existing row is left untouched.
	ErrDuplicateKey = errors.New("duplicate (date, ticker) key")

	// ErrStoreUnavailable indicates the store itself is unreachable.
	// This is the only fatal condition; everything else is recoverable.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// QueryError wraps a failure from an ad-hoc SQL statement with the
// underlying store's message intact. The engine never second-guesses or
// rewrites what the store reports.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %s", e.Message)
}

// RejectReason classifies why an ingested row was refused admission.
type RejectReason string

const (
	// ReasonFieldParse marks a field that could not be parsed to its
	// semantic type (non-numeric price, non-integer volume, malformed
	// date, empty ticker).
	ReasonFieldParse RejectReason = "field_parse"
	// ReasonRange marks a numeric field outside its valid range.
	ReasonRange RejectReason = "range"
	// ReasonDuplicateKey marks a (Date, Ticker) collision with a row
	// committed earlier, in this batch or before it.
	ReasonDuplicateKey RejectReason = "duplicate_key"
)

// Rejection records one refused row inside a LoadSummary. Rejections are
// values, not errors: load recovers from every one of them and keeps going.
type Rejection struct {
	Line   int          // 1-based line number in the source file
	Field  string       // Offending field, or "record" for a malformed row
	Reason RejectReason
}

func (r Rejection) String() string {
	return fmt.Sprintf("line %d: %s (%s)", r.Line, r.Reason, r.Field)
}
