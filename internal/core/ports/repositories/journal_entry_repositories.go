package repositories

import (
	"context"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for journal entries.
type JournalEntryReader interface {
	// FindUnreversedByTransactionID retrieves the not-yet-reversed entries
	// that share one business transaction id, ordered by entry id.
	FindUnreversedByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// FindUnreversedByEntity retrieves the not-yet-reversed entries linked to
	// one portfolio entity, used for provisioning reversals.
	FindUnreversedByEntity(ctx context.Context, kind domain.EntityKind, entityID int64) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entries.
type JournalEntryWriter interface {
	// SaveAll persists the balanced entry set of one business transaction
	// atomically: either every entry is written or none is.
	SaveAll(ctx context.Context, entries []domain.JournalEntry) error

	// SaveReversals inserts reversals[i], marks originals[i] reversed and
	// links it to its reversal, all within one database transaction. The two
	// slices must be the same length.
	SaveReversals(ctx context.Context, originals []domain.JournalEntry, reversals []domain.JournalEntry) error
}

// RunningBalanceStore defines the queries of the running-balance updater. It
// is the only writer of the running-balance columns.
type RunningBalanceStore interface {
	// FindEarliestUnbalancedEntryDate returns the entry date of the oldest
	// entry whose running balance has not been computed, scoped to one
	// office when officeID is non-nil. Nil when everything is balanced.
	FindEarliestUnbalancedEntryDate(ctx context.Context, officeID *int64) (*time.Time, error)

	// ListEntriesForBalanceRun streams every entry dated on or after from,
	// in (entry date, id) order, with the account classification attached.
	ListEntriesForBalanceRun(ctx context.Context, from time.Time) ([]domain.RunningBalanceRow, error)

	// OfficeBalancesAsOf returns, per (office, account), the running balance
	// of the most recent computed entry dated before the given date.
	OfficeBalancesAsOf(ctx context.Context, before time.Time) (map[domain.OfficeAccountKey]decimal.Decimal, error)

	// OrganizationBalancesAsOf returns, per account, the organization-wide
	// running balance of the most recent computed entry dated before the
	// given date.
	OrganizationBalancesAsOf(ctx context.Context, before time.Time) (map[int64]decimal.Decimal, error)

	// UpdateRunningBalances persists computed balances and marks the entries
	// balance-computed. Implementations batch the statements.
	UpdateRunningBalances(ctx context.Context, updates []domain.BalanceUpdate) error
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	RunningBalanceStore
}
