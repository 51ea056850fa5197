package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a referenced resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDataIntegrity indicates a broken accounting invariant (debit/credit sum
// mismatch, charge-split mismatch). It signals an upstream defect, never a
// retryable condition.
var ErrDataIntegrity = errors.New("accounting data integrity violation")

// ErrAccountDisabled indicates resolution produced a GL account that is
// disabled and must not receive postings.
var ErrAccountDisabled = errors.New("gl account is disabled")

// ErrManualEntriesNotAllowed indicates a manual posting targeted an account
// that forbids manual entries.
var ErrManualEntriesNotAllowed = errors.New("gl account does not allow manual entries")

// ErrFutureDate indicates a posting dated after the current business date.
var ErrFutureDate = errors.New("entry date is in the future")

// ClosedPeriodError rejects postings and reversals dated on or before the
// latest accounting closure of the office.
type ClosedPeriodError struct {
	OfficeID    int64
	ClosingDate time.Time
	EntryDate   time.Time
}

func (e *ClosedPeriodError) Error() string {
	return fmt.Sprintf("accounting closed for office %d: closing date %s is on or after entry date %s",
		e.OfficeID, e.ClosingDate.Format("2006-01-02"), e.EntryDate.Format("2006-01-02"))
}

// MappingNotFoundError reports a product placeholder with no GL account
// mapping after all refinement fallbacks.
type MappingNotFoundError struct {
	ProductType domain.ProductType
	ProductID   int64
	Role        domain.AccountRole
}

func (e *MappingNotFoundError) Error() string {
	return fmt.Sprintf("no gl account mapping for %s product %d, placeholder %d", e.ProductType, e.ProductID, e.Role)
}

func (e *MappingNotFoundError) Is(target error) bool { return target == ErrNotFound }

// FinancialActivityNotFoundError reports a missing organization-wide
// financial activity mapping.
type FinancialActivityNotFoundError struct {
	Activity domain.AccountRole
}

func (e *FinancialActivityNotFoundError) Error() string {
	return fmt.Sprintf("no gl account mapped for financial activity %d", e.Activity)
}

func (e *FinancialActivityNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ChargeSplitMismatchError reports per-charge postings that do not add up to
// the transaction component they split.
type ChargeSplitMismatchError struct {
	Expected decimal.Decimal
	Posted   decimal.Decimal
}

func (e *ChargeSplitMismatchError) Error() string {
	return fmt.Sprintf("sum of charge postings %s does not equal the charge amount %s of the transaction",
		e.Posted, e.Expected)
}

func (e *ChargeSplitMismatchError) Is(target error) bool { return target == ErrDataIntegrity }
