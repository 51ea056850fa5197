package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/subledger/internal/core/ports/services"
	"github.com/corebank/subledger/internal/middleware"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	balanceUpdateBatchSize = 1000
	balanceFoldWorkers     = 8
)

// RunningBalanceService recomputes the denormalized running-balance columns
// of the journal entry table. Balances are folded per (office, account) and
// per account organization-wide, in (entry date, id) order, seeded from the
// last computed balances before the earliest stale entry.
//
// Posting never touches these columns, so balances written here are stale the
// moment a new entry lands on an earlier or equal date. The fold therefore
// always restarts from the oldest uncomputed entry rather than the newest
// computed one.
type RunningBalanceService struct {
	store portsrepo.RunningBalanceStore
}

func NewRunningBalanceService(store portsrepo.RunningBalanceStore) *RunningBalanceService {
	return &RunningBalanceService{store: store}
}

var _ portssvc.RunningBalanceSvc = (*RunningBalanceService)(nil)

// UpdateRunningBalances recomputes balances for every office.
func (s *RunningBalanceService) UpdateRunningBalances(ctx context.Context) error {
	return s.update(ctx, nil)
}

// UpdateOfficeRunningBalances recomputes balances starting from the oldest
// uncomputed entry of one office. The organization-wide balance of an entry
// depends on every office's entries, so the office only moves the starting
// cursor; the fold itself always runs over the full ledger.
func (s *RunningBalanceService) UpdateOfficeRunningBalances(ctx context.Context, officeID int64) error {
	return s.update(ctx, &officeID)
}

func (s *RunningBalanceService) update(ctx context.Context, officeID *int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	from, err := s.store.FindEarliestUnbalancedEntryDate(ctx, officeID)
	if err != nil {
		return fmt.Errorf("running balance: find starting date: %w", err)
	}
	if from == nil {
		logger.DebugContext(ctx, "running balances already up to date")
		return nil
	}

	updates, err := s.fold(ctx, *from)
	if err != nil {
		return err
	}

	for start := 0; start < len(updates); start += balanceUpdateBatchSize {
		end := start + balanceUpdateBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		if err := s.store.UpdateRunningBalances(ctx, updates[start:end]); err != nil {
			return fmt.Errorf("running balance: persist batch: %w", err)
		}
	}

	logger.InfoContext(ctx, "running balances recomputed",
		slog.Time("from", *from),
		slog.Int("entries", len(updates)),
	)
	return nil
}

// fold replays every entry dated on or after from and computes both balance
// scopes. Entries of distinct GL accounts never share an accumulator, so each
// account's stream is folded on its own goroutine.
func (s *RunningBalanceService) fold(ctx context.Context, from time.Time) ([]domain.BalanceUpdate, error) {
	officeSeed, err := s.store.OfficeBalancesAsOf(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("running balance: seed office balances: %w", err)
	}
	orgSeed, err := s.store.OrganizationBalancesAsOf(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("running balance: seed organization balances: %w", err)
	}

	rows, err := s.store.ListEntriesForBalanceRun(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("running balance: list entries: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Partition by account, preserving the (entry date, id) order of the
	// global stream inside each partition.
	partitions := make(map[int64][]domain.RunningBalanceRow)
	accountOrder := make([]int64, 0)
	for _, row := range rows {
		accountID := row.Entry.GLAccountID
		if _, seen := partitions[accountID]; !seen {
			accountOrder = append(accountOrder, accountID)
		}
		partitions[accountID] = append(partitions[accountID], row)
	}

	results := make([][]domain.BalanceUpdate, len(accountOrder))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(balanceFoldWorkers)
	for i, accountID := range accountOrder {
		i, accountID := i, accountID
		group.Go(func() error {
			results[i] = foldAccount(partitions[accountID], officeSeed, orgSeed[accountID])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	updates := make([]domain.BalanceUpdate, 0, len(rows))
	for _, part := range results {
		updates = append(updates, part...)
	}
	return updates, nil
}

// foldAccount walks one account's entries in order, carrying one accumulator
// per office plus the organization-wide one. Debits grow asset and expense
// accounts; credits grow liability, equity and income accounts.
func foldAccount(rows []domain.RunningBalanceRow, officeSeed map[domain.OfficeAccountKey]decimal.Decimal, orgBalance decimal.Decimal) []domain.BalanceUpdate {
	officeBalances := make(map[int64]decimal.Decimal, 4)
	updates := make([]domain.BalanceUpdate, 0, len(rows))

	for _, row := range rows {
		delta := row.Entry.Amount
		if !row.Classification.IsIncreasedBy(row.Entry.Type) {
			delta = delta.Neg()
		}

		office, seeded := officeBalances[row.Entry.OfficeID]
		if !seeded {
			office = officeSeed[domain.OfficeAccountKey{OfficeID: row.Entry.OfficeID, GLAccountID: row.Entry.GLAccountID}]
		}
		office = office.Add(delta)
		officeBalances[row.Entry.OfficeID] = office
		orgBalance = orgBalance.Add(delta)

		updates = append(updates, domain.BalanceUpdate{
			JournalEntryID:             row.Entry.JournalEntryID,
			OfficeRunningBalance:       office,
			OrganizationRunningBalance: orgBalance,
		})
	}
	return updates
}
