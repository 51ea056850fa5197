package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountResolverTestSuite struct {
	suite.Suite

	ledger   *fakeLedger
	resolver *services.AccountResolver
	ctx      context.Context
}

func (s *AccountResolverTestSuite) SetupTest() {
	s.ledger = newFakeLedger()
	s.resolver = services.NewAccountResolver(s.ledger, s.ledger)
	s.ctx = context.Background()
}

func (s *AccountResolverTestSuite) TestResolveCoreMapping() {
	s.ledger.mapRole(domain.ProductLoan, 7, domain.LoanPortfolio, 11, domain.Asset)

	account, err := s.resolver.Resolve(s.ctx, domain.ProductLoan, 7, domain.LoanPortfolio, nil, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(11), account.GLAccountID)
	assert.Equal(s.T(), domain.Asset, account.Classification)
}

func (s *AccountResolverTestSuite) TestPaymentTypeRefinementOverridesCore() {
	s.ledger.mapRole(domain.ProductLoan, 7, domain.LoanFundSource, 11, domain.Asset)
	s.ledger.mapPaymentType(domain.ProductLoan, 7, domain.LoanFundSource, 3, 12, domain.Asset)

	paymentType := int64(3)
	id, err := s.resolver.ResolveID(s.ctx, domain.ProductLoan, 7, domain.LoanFundSource, &paymentType, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(12), id)
}

func (s *AccountResolverTestSuite) TestPaymentTypeRefinementFallsBackToCore() {
	s.ledger.mapRole(domain.ProductLoan, 7, domain.LoanFundSource, 11, domain.Asset)

	// Payment type 9 has no refined row, so core wins.
	paymentType := int64(9)
	id, err := s.resolver.ResolveID(s.ctx, domain.ProductLoan, 7, domain.LoanFundSource, &paymentType, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(11), id)
}

func (s *AccountResolverTestSuite) TestChargeRefinementOverridesCore() {
	s.ledger.mapRole(domain.ProductLoan, 7, domain.LoanFeeIncome, 20, domain.Income)
	s.ledger.mapCharge(domain.ProductLoan, 7, domain.LoanFeeIncome, 41, 21, domain.Income)

	charge := int64(41)
	id, err := s.resolver.ResolveID(s.ctx, domain.ProductLoan, 7, domain.LoanFeeIncome, nil, &charge)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(21), id)
}

func (s *AccountResolverTestSuite) TestRefinementIgnoredForNonRefinableRole() {
	s.ledger.mapRole(domain.ProductLoan, 7, domain.LoanPortfolio, 11, domain.Asset)
	// A refined row for a role that does not permit payment-type refinement
	// must never shadow the core mapping.
	s.ledger.mapPaymentType(domain.ProductLoan, 7, domain.LoanPortfolio, 3, 99, domain.Asset)

	paymentType := int64(3)
	id, err := s.resolver.ResolveID(s.ctx, domain.ProductLoan, 7, domain.LoanPortfolio, &paymentType, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(11), id)
}

func (s *AccountResolverTestSuite) TestFinancialActivityIgnoresProduct() {
	s.ledger.mapActivity(domain.ActivityLiabilityTransfer, 30, domain.Liability)

	// Product id is irrelevant for organization-wide activities.
	id, err := s.resolver.ResolveID(s.ctx, domain.ProductLoan, 999, domain.ActivityLiabilityTransfer, nil, nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(30), id)
}

func (s *AccountResolverTestSuite) TestMissingFinancialActivity() {
	_, err := s.resolver.Resolve(s.ctx, domain.ProductLoan, 7, domain.ActivityLiabilityTransfer, nil, nil)
	var notFound *apperrors.FinancialActivityNotFoundError
	require.ErrorAs(s.T(), err, &notFound)
	assert.Equal(s.T(), domain.ActivityLiabilityTransfer, notFound.Activity)
	assert.True(s.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (s *AccountResolverTestSuite) TestMissingMapping() {
	_, err := s.resolver.Resolve(s.ctx, domain.ProductSavings, 5, domain.SavingsControl, nil, nil)
	var notFound *apperrors.MappingNotFoundError
	require.ErrorAs(s.T(), err, &notFound)
	assert.Equal(s.T(), domain.ProductSavings, notFound.ProductType)
	assert.Equal(s.T(), int64(5), notFound.ProductID)
}

func (s *AccountResolverTestSuite) TestDisabledAccountRejected() {
	s.ledger.mapRole(domain.ProductLoan, 7, domain.LoanPortfolio, 11, domain.Asset)
	s.ledger.accounts[11].Disabled = true

	_, err := s.resolver.Resolve(s.ctx, domain.ProductLoan, 7, domain.LoanPortfolio, nil, nil)
	assert.True(s.T(), errors.Is(err, apperrors.ErrAccountDisabled))
}

func TestAccountResolver(t *testing.T) {
	suite.Run(t, new(AccountResolverTestSuite))
}
