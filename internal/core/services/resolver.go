package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	"github.com/corebank/subledger/internal/middleware"
)

// AccountResolver maps (product, role) pairs to concrete GL accounts, applying
// payment-type and charge refinements where the role allows them.
type AccountResolver struct {
	MappingRepository portsrepo.AccountMappingRepository
	AccountRepository portsrepo.GLAccountRepository
}

func NewAccountResolver(mappingRepo portsrepo.AccountMappingRepository, accountRepo portsrepo.GLAccountRepository) *AccountResolver {
	return &AccountResolver{
		MappingRepository: mappingRepo,
		AccountRepository: accountRepo,
	}
}

// Resolve returns the GL account for a product/role pair. Financial-activity
// roles resolve through the organisation-wide activity mappings and ignore the
// product entirely. Refinements are attempted only for roles that permit them
// and fall back to the core product mapping when no refined row exists.
func (s *AccountResolver) Resolve(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID, chargeID *int64) (*domain.GLAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if role.IsFinancialActivity() {
		activity, err := s.MappingRepository.FindFinancialActivityAccount(ctx, role)
		if err != nil {
			return nil, err
		}
		if activity == nil {
			return nil, &apperrors.FinancialActivityNotFoundError{Activity: role}
		}
		return s.fetchAccount(ctx, activity.GLAccountID)
	}

	var mapping *domain.ProductToGLAccountMapping
	var err error

	switch role.RefinementFor(productType) {
	case domain.RefineByPaymentType:
		if paymentTypeID != nil {
			mapping, err = s.MappingRepository.FindPaymentTypeMapping(ctx, productType, productID, role, *paymentTypeID)
			if err != nil {
				return nil, err
			}
		}
	case domain.RefineByCharge:
		if chargeID != nil {
			mapping, err = s.MappingRepository.FindChargeMapping(ctx, productType, productID, role, *chargeID)
			if err != nil {
				return nil, err
			}
		}
	}

	if mapping == nil {
		mapping, err = s.MappingRepository.FindCoreMapping(ctx, productType, productID, role)
		if err != nil {
			return nil, err
		}
	}
	if mapping == nil {
		logger.Error("No GL account mapping configured",
			slog.String("product_type", string(productType)),
			slog.Int64("product_id", productID),
			slog.Int("role", int(role)))
		return nil, &apperrors.MappingNotFoundError{ProductType: productType, ProductID: productID, Role: role}
	}

	return s.fetchAccount(ctx, mapping.GLAccountID)
}

// ResolveID is Resolve for callers that only need the account identifier.
func (s *AccountResolver) ResolveID(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID, chargeID *int64) (int64, error) {
	account, err := s.Resolve(ctx, productType, productID, role, paymentTypeID, chargeID)
	if err != nil {
		return 0, err
	}
	return account.GLAccountID, nil
}

func (s *AccountResolver) fetchAccount(ctx context.Context, glAccountID int64) (*domain.GLAccount, error) {
	account, err := s.AccountRepository.FindGLAccountByID(ctx, glAccountID)
	if err != nil {
		return nil, err
	}
	if account.Disabled {
		return nil, fmt.Errorf("GL account %d (%s) is disabled: %w", account.GLAccountID, account.GLCode, apperrors.ErrAccountDisabled)
	}
	return account, nil
}
