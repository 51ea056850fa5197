package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGLAccountRepository struct {
	BaseRepository
}

// newPgxGLAccountRepository creates a new repository for ledger account data.
func newPgxGLAccountRepository(pool *pgxpool.Pool) portsrepo.GLAccountRepository {
	return &PgxGLAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GLAccountRepository = (*PgxGLAccountRepository)(nil)

func (r *PgxGLAccountRepository) FindGLAccountByID(ctx context.Context, glAccountID int64) (*domain.GLAccount, error) {
	query := `
		SELECT gl_account_id, name, gl_code, classification, disabled, manual_entries_allowed
		FROM gl_accounts
		WHERE gl_account_id = $1;
	`
	var account domain.GLAccount
	err := r.Pool.QueryRow(ctx, query, glAccountID).Scan(
		&account.GLAccountID,
		&account.Name,
		&account.GLCode,
		&account.Classification,
		&account.Disabled,
		&account.ManualEntriesAllowed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("gl account %d: %w", glAccountID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find gl account %d: %w", glAccountID, err)
	}
	return &account, nil
}
