package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalEntryRepository struct {
	BaseRepository
}

// newPgxJournalEntryRepository creates a new repository for journal entry data.
func newPgxJournalEntryRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepositoryFacade {
	return &PgxJournalEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalEntryRepositoryFacade = (*PgxJournalEntryRepository)(nil)

const entryColumns = `
	journal_entry_id, office_id, gl_account_id, currency_code, transaction_id,
	manual_entry, entry_date, submitted_on, entry_type, amount,
	entity_type, entity_id,
	loan_transaction_id, savings_transaction_id, client_transaction_id, share_transaction_id,
	reversed, reversal_entry_id,
	office_running_balance, organization_running_balance, running_balance_computed,
	reference_number, comments`

const insertEntryQuery = `
	INSERT INTO journal_entries (
		office_id, gl_account_id, currency_code, transaction_id,
		manual_entry, entry_date, submitted_on, entry_type, amount,
		entity_type, entity_id,
		loan_transaction_id, savings_transaction_id, client_transaction_id, share_transaction_id,
		reference_number, comments
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

func insertEntryArgs(entry *domain.JournalEntry) []interface{} {
	var entityType *domain.EntityKind
	var entityID *int64
	if entry.Entity != nil {
		entityType = &entry.Entity.Kind
		entityID = &entry.Entity.ID
	}
	return []interface{}{
		entry.OfficeID,
		entry.GLAccountID,
		entry.CurrencyCode,
		entry.TransactionID,
		entry.ManualEntry,
		entry.EntryDate,
		entry.SubmittedOn,
		entry.Type,
		entry.Amount,
		entityType,
		entityID,
		entry.LoanTransactionID,
		entry.SavingsTransactionID,
		entry.ClientTransactionID,
		entry.ShareTransactionID,
		entry.ReferenceNumber,
		entry.Comments,
	}
}

// SaveAll persists one balanced entry set inside a single database
// transaction, so a failure partway never leaves a half-posted business
// transaction behind.
func (r *PgxJournalEntryRepository) SaveAll(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for i := range entries {
		batch.Queue(insertEntryQuery, insertEntryArgs(&entries[i])...)
	}
	br := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert journal entry: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close journal entry batch: %w", err)
	}
	return r.Commit(ctx, tx)
}

// SaveReversals inserts each reversal, links its original to it and marks the
// original reversed, all within one transaction.
func (r *PgxJournalEntryRepository) SaveReversals(ctx context.Context, originals []domain.JournalEntry, reversals []domain.JournalEntry) error {
	if len(originals) != len(reversals) {
		return fmt.Errorf("got %d originals against %d reversals", len(originals), len(reversals))
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertReturning := insertEntryQuery + " RETURNING journal_entry_id;"
	markReversed := `
		UPDATE journal_entries
		SET reversed = TRUE, reversal_entry_id = $1
		WHERE journal_entry_id = $2 AND NOT reversed;
	`
	for i := range reversals {
		var reversalID int64
		if err := tx.QueryRow(ctx, insertReturning, insertEntryArgs(&reversals[i])...).Scan(&reversalID); err != nil {
			return fmt.Errorf("failed to insert reversal entry: %w", err)
		}
		tag, err := tx.Exec(ctx, markReversed, reversalID, originals[i].JournalEntryID)
		if err != nil {
			return fmt.Errorf("failed to mark journal entry %d reversed: %w", originals[i].JournalEntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("journal entry %d was already reversed", originals[i].JournalEntryID)
		}
	}
	return r.Commit(ctx, tx)
}

func (r *PgxJournalEntryRepository) FindUnreversedByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE transaction_id = $1 AND NOT reversed
		ORDER BY journal_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PgxJournalEntryRepository) FindUnreversedByEntity(ctx context.Context, kind domain.EntityKind, entityID int64) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entity_type = $1 AND entity_id = $2 AND NOT reversed
		ORDER BY journal_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for %s %d: %w", kind, entityID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// FindEarliestUnbalancedEntryDate is the running-balance cursor: the oldest
// entry date whose balance has not been computed yet.
func (r *PgxJournalEntryRepository) FindEarliestUnbalancedEntryDate(ctx context.Context, officeID *int64) (*time.Time, error) {
	query := `
		SELECT MIN(entry_date)
		FROM journal_entries
		WHERE NOT running_balance_computed;
	`
	args := []interface{}{}
	if officeID != nil {
		query = `
			SELECT MIN(entry_date)
			FROM journal_entries
			WHERE NOT running_balance_computed AND office_id = $1;
		`
		args = append(args, *officeID)
	}
	var date *time.Time
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find earliest unbalanced entry date: %w", err)
	}
	return date, nil
}

// ListEntriesForBalanceRun streams every entry dated on or after from, in
// (entry date, id) order, with the account classification the balance fold
// needs joined in.
func (r *PgxJournalEntryRepository) ListEntriesForBalanceRun(ctx context.Context, from time.Time) ([]domain.RunningBalanceRow, error) {
	query := `
		SELECT je.journal_entry_id, je.office_id, je.gl_account_id, je.entry_type, je.amount, ga.classification
		FROM journal_entries je
		JOIN gl_accounts ga ON ga.gl_account_id = je.gl_account_id
		WHERE je.entry_date >= $1
		ORDER BY je.entry_date, je.journal_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for balance run: %w", err)
	}
	defer rows.Close()

	var out []domain.RunningBalanceRow
	for rows.Next() {
		var row domain.RunningBalanceRow
		if err := rows.Scan(
			&row.Entry.JournalEntryID,
			&row.Entry.OfficeID,
			&row.Entry.GLAccountID,
			&row.Entry.Type,
			&row.Entry.Amount,
			&row.Classification,
		); err != nil {
			return nil, fmt.Errorf("failed to scan balance run row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// OfficeBalancesAsOf seeds the fold: per (office, account), the running
// balance of the most recent computed entry dated before the given date.
func (r *PgxJournalEntryRepository) OfficeBalancesAsOf(ctx context.Context, before time.Time) (map[domain.OfficeAccountKey]decimal.Decimal, error) {
	query := `
		SELECT DISTINCT ON (office_id, gl_account_id)
			office_id, gl_account_id, office_running_balance
		FROM journal_entries
		WHERE running_balance_computed AND entry_date < $1
		ORDER BY office_id, gl_account_id, entry_date DESC, journal_entry_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query office balance seeds: %w", err)
	}
	defer rows.Close()

	seeds := make(map[domain.OfficeAccountKey]decimal.Decimal)
	for rows.Next() {
		var key domain.OfficeAccountKey
		var balance decimal.Decimal
		if err := rows.Scan(&key.OfficeID, &key.GLAccountID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan office balance seed: %w", err)
		}
		seeds[key] = balance
	}
	return seeds, rows.Err()
}

func (r *PgxJournalEntryRepository) OrganizationBalancesAsOf(ctx context.Context, before time.Time) (map[int64]decimal.Decimal, error) {
	query := `
		SELECT DISTINCT ON (gl_account_id)
			gl_account_id, organization_running_balance
		FROM journal_entries
		WHERE running_balance_computed AND entry_date < $1
		ORDER BY gl_account_id, entry_date DESC, journal_entry_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query organization balance seeds: %w", err)
	}
	defer rows.Close()

	seeds := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var accountID int64
		var balance decimal.Decimal
		if err := rows.Scan(&accountID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan organization balance seed: %w", err)
		}
		seeds[accountID] = balance
	}
	return seeds, rows.Err()
}

// UpdateRunningBalances writes the computed balances and marks each entry
// balance-computed. The caller batches; one call is one database transaction.
func (r *PgxJournalEntryRepository) UpdateRunningBalances(ctx context.Context, updates []domain.BalanceUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET office_running_balance = $1,
		    organization_running_balance = $2,
		    running_balance_computed = TRUE
		WHERE journal_entry_id = $3;
	`
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(query, u.OfficeRunningBalance, u.OrganizationRunningBalance, u.JournalEntryID)
	}
	br := tx.SendBatch(ctx, batch)
	for range updates {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to update running balance: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close running balance batch: %w", err)
	}
	return r.Commit(ctx, tx)
}

func scanEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		var entityType *domain.EntityKind
		var entityID *int64
		if err := rows.Scan(
			&entry.JournalEntryID,
			&entry.OfficeID,
			&entry.GLAccountID,
			&entry.CurrencyCode,
			&entry.TransactionID,
			&entry.ManualEntry,
			&entry.EntryDate,
			&entry.SubmittedOn,
			&entry.Type,
			&entry.Amount,
			&entityType,
			&entityID,
			&entry.LoanTransactionID,
			&entry.SavingsTransactionID,
			&entry.ClientTransactionID,
			&entry.ShareTransactionID,
			&entry.Reversed,
			&entry.ReversalEntryID,
			&entry.OfficeRunningBalance,
			&entry.OrganizationRunningBalance,
			&entry.RunningBalanceComputed,
			&entry.ReferenceNumber,
			&entry.Comments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if entityType != nil && entityID != nil {
			entry.Entity = &domain.EntityRef{Kind: *entityType, ID: *entityID}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
