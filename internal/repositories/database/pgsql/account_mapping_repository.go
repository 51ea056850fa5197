package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountMappingRepository struct {
	BaseRepository
}

// newPgxAccountMappingRepository creates a new repository for product-to-account
// and financial-activity mapping configuration.
func newPgxAccountMappingRepository(pool *pgxpool.Pool) portsrepo.AccountMappingRepository {
	return &PgxAccountMappingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountMappingRepository = (*PgxAccountMappingRepository)(nil)

const mappingColumns = `mapping_id, product_id, product_type, account_role, payment_type_id, charge_id, gl_account_id`

// FindCoreMapping retrieves the per-product mapping row with no refinement.
// Absence is returned as (nil, nil): the resolver decides whether a missing
// row is a fallback or a configuration error.
func (r *PgxAccountMappingRepository) FindCoreMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole) (*domain.ProductToGLAccountMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM acc_product_mappings
		WHERE product_type = $1 AND product_id = $2 AND account_role = $3
		  AND payment_type_id IS NULL AND charge_id IS NULL;
	`
	return r.scanMapping(r.Pool.QueryRow(ctx, query, productType, productID, role))
}

func (r *PgxAccountMappingRepository) FindPaymentTypeMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID int64) (*domain.ProductToGLAccountMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM acc_product_mappings
		WHERE product_type = $1 AND product_id = $2 AND account_role = $3
		  AND payment_type_id = $4;
	`
	return r.scanMapping(r.Pool.QueryRow(ctx, query, productType, productID, role, paymentTypeID))
}

func (r *PgxAccountMappingRepository) FindChargeMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, chargeID int64) (*domain.ProductToGLAccountMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM acc_product_mappings
		WHERE product_type = $1 AND product_id = $2 AND account_role = $3
		  AND charge_id = $4;
	`
	return r.scanMapping(r.Pool.QueryRow(ctx, query, productType, productID, role, chargeID))
}

func (r *PgxAccountMappingRepository) FindFinancialActivityAccount(ctx context.Context, activity domain.AccountRole) (*domain.FinancialActivityAccount, error) {
	query := `
		SELECT financial_activity_account_id, financial_activity, gl_account_id
		FROM acc_financial_activity_accounts
		WHERE financial_activity = $1;
	`
	var account domain.FinancialActivityAccount
	err := r.Pool.QueryRow(ctx, query, activity).Scan(
		&account.FinancialActivityAccountID,
		&account.Activity,
		&account.GLAccountID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find financial activity account %d: %w", activity, err)
	}
	return &account, nil
}

func (r *PgxAccountMappingRepository) scanMapping(row pgx.Row) (*domain.ProductToGLAccountMapping, error) {
	var mapping domain.ProductToGLAccountMapping
	err := row.Scan(
		&mapping.MappingID,
		&mapping.ProductID,
		&mapping.ProductType,
		&mapping.Role,
		&mapping.PaymentTypeID,
		&mapping.ChargeID,
		&mapping.GLAccountID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan product account mapping: %w", err)
	}
	return &mapping, nil
}
