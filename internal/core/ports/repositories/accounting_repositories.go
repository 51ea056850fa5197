package repositories

import (
	"context"

	"github.com/corebank/subledger/internal/core/domain"
)

// AccountMappingRepository defines lookups over product-to-account and
// financial-activity mapping configuration. All Find methods return
// (nil, nil) when no row exists; the resolver decides whether absence is a
// fallback or a configuration error.
type AccountMappingRepository interface {
	// FindCoreMapping retrieves the per-product mapping for a placeholder
	// with neither payment-type nor charge refinement.
	FindCoreMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole) (*domain.ProductToGLAccountMapping, error)

	// FindPaymentTypeMapping retrieves the payment-channel-specific mapping
	// for a fund-source/reference placeholder.
	FindPaymentTypeMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID int64) (*domain.ProductToGLAccountMapping, error)

	// FindChargeMapping retrieves the charge-specific mapping for a fee or
	// penalty income placeholder.
	FindChargeMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, chargeID int64) (*domain.ProductToGLAccountMapping, error)

	// FindFinancialActivityAccount retrieves the organization-wide account
	// mapped to a financial activity.
	FindFinancialActivityAccount(ctx context.Context, activity domain.AccountRole) (*domain.FinancialActivityAccount, error)
}

// GLAccountRepository defines lookups of ledger accounts.
type GLAccountRepository interface {
	FindGLAccountByID(ctx context.Context, glAccountID int64) (*domain.GLAccount, error)
}

// GLClosureRepository defines lookups of branch accounting closures.
type GLClosureRepository interface {
	// FindLatestByOffice returns the most recent closure for an office, or
	// (nil, nil) when the office has never been closed.
	FindLatestByOffice(ctx context.Context, officeID int64) (*domain.GLClosure, error)
}

// OfficeRepository defines lookups of branch offices.
type OfficeRepository interface {
	FindOfficeByID(ctx context.Context, officeID int64) (*domain.Office, error)
}
