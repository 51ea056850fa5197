package services

import (
	"context"
	"time"

	"github.com/corebank/subledger/internal/dto"
)

// JournalEntryWriterSvc converts bridge snapshots into balanced journal
// entries under the product's posting policy.
type JournalEntryWriterSvc interface {
	// CreateJournalEntriesForLoan posts all new transactions of one loan
	// bridge snapshot. A snapshot whose product has accounting disabled is a
	// no-op.
	CreateJournalEntriesForLoan(ctx context.Context, bridgeData map[string]interface{}) error

	// CreateJournalEntriesForSavings posts all new transactions of one
	// savings bridge snapshot.
	CreateJournalEntriesForSavings(ctx context.Context, bridgeData map[string]interface{}) error

	// CreateJournalEntriesForShares posts all new transactions of one share
	// account bridge snapshot.
	CreateJournalEntriesForShares(ctx context.Context, bridgeData map[string]interface{}) error

	// CreateJournalEntriesForClientTransaction posts one client charge
	// payment snapshot.
	CreateJournalEntriesForClientTransaction(ctx context.Context, bridgeData map[string]interface{}) error

	// CreateProvisioningJournalEntries posts one provisioning run and
	// returns its business transaction id.
	CreateProvisioningJournalEntries(ctx context.Context, entry dto.ProvisioningDTO) (string, error)
}

// JournalEntryReverserSvc mirrors previously posted entry sets.
type JournalEntryReverserSvc interface {
	// RevertJournalEntry reverses every unreversed entry of one business
	// transaction id and returns the reversal's transaction id.
	RevertJournalEntry(ctx context.Context, transactionID string, comment string) (string, error)

	// RevertProvisioningJournalEntries reverses the entries of one
	// provisioning entity as of the given date.
	RevertProvisioningJournalEntries(ctx context.Context, reversalDate time.Time, entityID int64) (string, error)

	// RevertShareAccountJournalEntries reverses the entries of the given
	// share transactions; ids with no entries are skipped.
	RevertShareAccountJournalEntries(ctx context.Context, shareTransactionIDs []int64, reversalDate time.Time) error
}

// RunningBalanceSvc recomputes per-office and organization running balances
// for entries not yet covered.
type RunningBalanceSvc interface {
	// UpdateRunningBalances processes all offices.
	UpdateRunningBalances(ctx context.Context) error

	// UpdateOfficeRunningBalances processes a single office.
	UpdateOfficeRunningBalances(ctx context.Context, officeID int64) error
}

// AccountingSvcFacade combines the posting, reversal and balance services.
type AccountingSvcFacade interface {
	JournalEntryWriterSvc
	JournalEntryReverserSvc
	RunningBalanceSvc
}
