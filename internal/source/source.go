// Package source defines the contract between the acquisition pipeline and
// concrete statement data sources, along with the pipeline error taxonomy.
// Concrete sources live in subpackages (currently only Sina Finance).
package source

import (
	"context"
	"fmt"

	"github.com/junyangz/cninsight/pkg/models"
)

// PeriodDateLabel is the reserved raw-record key under which a fetcher
// stores the source-native period-end date for the record.
const PeriodDateLabel = "报告日期"

// RawPeriodRecord is an unvalidated mapping of source-native field labels
// to source-native values for a single disclosed period. The normalizer
// owns all interpretation; fetchers only transpose the source layout.
type RawPeriodRecord map[string]string

// Fetcher retrieves raw statement records for a company from an external
// source, ordered most-recent-first. A source that omits a statement type
// entirely yields an empty slice, not an error. Fetchers do not retry and
// do not persist; callers bound the call with a context deadline.
type Fetcher interface {
	Fetch(ctx context.Context, company models.CompanyID, t models.StatementType) ([]RawPeriodRecord, error)
}

// ProfileFetcher resolves a company's display name from the source.
// Optional surface used by the API layer; failures are non-fatal.
type ProfileFetcher interface {
	CompanyName(ctx context.Context, company models.CompanyID) (string, error)
}

// ValidateCode checks the company code against the supported market-prefix
// patterns before any outbound request.
func ValidateCode(company models.CompanyID) error {
	if !company.Valid() {
		return &InvalidIdentifierError{Code: string(company)}
	}
	return nil
}

// InvalidIdentifierError reports a malformed company code. Never retried;
// the caller must correct the input.
type InvalidIdentifierError struct {
	Code string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid company code %q: must be a 6-digit code with a supported market prefix", e.Code)
}

// SourceUnavailableError reports a network or source fault: timeout,
// unreachable host, or a response that does not look like a report.
// Caller-level retry with backoff is acceptable; the core never retries.
type SourceUnavailableError struct {
	Op  string // e.g. "sina balance_sheet 600519"
	Err error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("source unavailable: %s", e.Op)
	}
	return fmt.Sprintf("source unavailable: %s: %v", e.Op, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// MalformedPeriodError reports a raw record whose period-end date is absent
// or unparsable. The record is skipped; the batch continues.
type MalformedPeriodError struct {
	Raw string
}

func (e *MalformedPeriodError) Error() string {
	return fmt.Sprintf("malformed period date %q", e.Raw)
}

// InsufficientDataError reports an analysis request for which no stored
// periods match.
type InsufficientDataError struct {
	Company models.CompanyID
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("no stored statements for company %s in the requested range", e.Company)
}
