package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/core/services"
	"github.com/corebank/subledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	savingsProductID = int64(3)

	accSavingsReference       = int64(60)
	accSavingsControl         = int64(61)
	accSavingsInterestExpense = int64(62)
	accSavingsFeeIncome       = int64(63)
	accSavingsPenaltyIncome   = int64(64)
	accSavingsSuspense        = int64(65)
	accOverdraftControl       = int64(66)
	accOverdraftInterest      = int64(67)
	accSavingsWriteOff        = int64(68)
	accEscheatLiability       = int64(69)
	accSavingsFeesRecv        = int64(70)
	accSavingsPenaltiesRecv   = int64(71)
	accSavingsInterestPayable = int64(72)
	accPayableDividends       = int64(73)
	accTaxLiability           = int64(74)
)

func savingsLedger() (*fakeLedger, *services.PostingHelper) {
	ledger, helper := newTestHelper()
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsReference, accSavingsReference, domain.Asset)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsControl, accSavingsControl, domain.Liability)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsInterestExpense, accSavingsInterestExpense, domain.Expense)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsFeeIncome, accSavingsFeeIncome, domain.Income)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsPenaltyIncome, accSavingsPenaltyIncome, domain.Income)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsTransfersSuspense, accSavingsSuspense, domain.Liability)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsOverdraftControl, accOverdraftControl, domain.Asset)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsOverdraftInterestIncome, accOverdraftInterest, domain.Income)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsLossesWrittenOff, accSavingsWriteOff, domain.Expense)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsEscheatLiability, accEscheatLiability, domain.Liability)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsFeesReceivable, accSavingsFeesRecv, domain.Asset)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsPenaltiesReceivable, accSavingsPenaltiesRecv, domain.Asset)
	ledger.mapRole(domain.ProductSavings, savingsProductID, domain.SavingsInterestPayable, accSavingsInterestPayable, domain.Liability)
	ledger.mapActivity(domain.ActivityPayableDividends, accPayableDividends, domain.Liability)
	return ledger, helper
}

func cashSavings() *dto.SavingsDTO {
	return &dto.SavingsDTO{
		SavingsID:           77,
		ProductID:           savingsProductID,
		OfficeID:            1,
		CurrencyCode:        "USD",
		CashBasedAccounting: true,
	}
}

func savingsTxn(id string, txnType dto.SavingsTransactionType, amount int64) *dto.SavingsTransaction {
	return &dto.SavingsTransaction{
		TransactionID: id,
		OfficeID:      1,
		Date:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:          txnType,
		Amount:        decimal.NewFromInt(amount),
	}
}

type SavingsEngineTestSuite struct {
	suite.Suite

	ledger  *fakeLedger
	cash    *services.SavingsCashEngine
	accrual *services.SavingsAccrualEngine
	ctx     context.Context
}

func (s *SavingsEngineTestSuite) SetupTest() {
	var helper *services.PostingHelper
	s.ledger, helper = savingsLedger()
	s.cash = services.NewSavingsCashEngine(helper)
	s.accrual = services.NewSavingsAccrualEngine(helper)
	s.ctx = context.Background()
}

func (s *SavingsEngineTestSuite) TestDeposit() {
	ps, err := s.cash.Post(s.ctx, cashSavings(), savingsTxn("301", dto.SavingsDeposit, 500))
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 2)
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsReference, decimal.NewFromInt(500))
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsControl, decimal.NewFromInt(500))
	assert.Equal(s.T(), "S301", ps.TransactionID())
}

func (s *SavingsEngineTestSuite) TestDepositRepaysOverdraftFirst() {
	txn := savingsTxn("302", dto.SavingsDeposit, 500)
	txn.OverdraftTransaction = true
	txn.OverdraftAmount = decimal.NewFromInt(200)

	ps, err := s.cash.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 3)
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsReference, decimal.NewFromInt(500))
	assertSingleEntry(s.T(), entries, domain.Credit, accOverdraftControl, decimal.NewFromInt(200))
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsControl, decimal.NewFromInt(300))
	assertBalanced(s.T(), entries)
}

func (s *SavingsEngineTestSuite) TestWithdrawalFullyFromOverdraft() {
	txn := savingsTxn("303", dto.SavingsWithdrawal, 400)
	txn.OverdraftTransaction = true
	txn.OverdraftAmount = decimal.NewFromInt(400)

	ps, err := s.cash.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	// The ordinary-control slice is zero and must not produce an entry.
	entries := ps.Entries()
	require.Len(s.T(), entries, 2)
	assertSingleEntry(s.T(), entries, domain.Debit, accOverdraftControl, decimal.NewFromInt(400))
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsReference, decimal.NewFromInt(400))
}

func (s *SavingsEngineTestSuite) TestInterestPostingPerBasis() {
	ps, err := s.cash.Post(s.ctx, cashSavings(), savingsTxn("304", dto.SavingsInterestPosting, 50))
	require.NoError(s.T(), err)
	assertSingleEntry(s.T(), ps.Entries(), domain.Debit, accSavingsInterestExpense, decimal.NewFromInt(50))
	assertSingleEntry(s.T(), ps.Entries(), domain.Credit, accSavingsControl, decimal.NewFromInt(50))

	// Accrual basis settles the payable built up by accrual runs instead.
	ps, err = s.accrual.Post(s.ctx, cashSavings(), savingsTxn("305", dto.SavingsInterestPosting, 50))
	require.NoError(s.T(), err)
	assertSingleEntry(s.T(), ps.Entries(), domain.Debit, accSavingsInterestPayable, decimal.NewFromInt(50))
}

func (s *SavingsEngineTestSuite) TestFeeDeductionSplitsPerCharge() {
	chargeAccount := int64(80)
	s.ledger.mapCharge(domain.ProductSavings, savingsProductID, domain.SavingsFeeIncome, 91, chargeAccount, domain.Income)

	txn := savingsTxn("306", dto.SavingsFeeDeduction, 25)
	txn.ChargePayments = []dto.ChargePayment{
		{ChargeID: 91, Amount: decimal.NewFromInt(15)},
		{ChargeID: 92, Amount: decimal.NewFromInt(10)},
	}

	ps, err := s.cash.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsControl, decimal.NewFromInt(25))
	assertSingleEntry(s.T(), entries, domain.Credit, chargeAccount, decimal.NewFromInt(15))
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsFeeIncome, decimal.NewFromInt(10))
}

func (s *SavingsEngineTestSuite) TestAccrualFeeDeductionSettlesReceivable() {
	txn := savingsTxn("307", dto.SavingsFeeDeduction, 25)

	ps, err := s.accrual.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 2)
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsControl, decimal.NewFromInt(25))
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsFeesRecv, decimal.NewFromInt(25))
}

func (s *SavingsEngineTestSuite) TestWaiveChargeSwapsSides() {
	txn := savingsTxn("308", dto.SavingsWaiveCharge, 25)
	txn.ChargePayments = []dto.ChargePayment{{ChargeID: 92, Amount: decimal.NewFromInt(25)}}

	ps, err := s.cash.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	// The waiver undoes a deduction: income is debited, the depositor's
	// balance credited.
	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsControl, decimal.NewFromInt(25))
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsFeeIncome, decimal.NewFromInt(25))
}

func (s *SavingsEngineTestSuite) TestWithholdTaxCreditsConfiguredAccounts() {
	ledger := s.ledger
	ledger.addAccount(accTaxLiability, domain.Liability)

	txn := savingsTxn("309", dto.SavingsWithholdTax, 12)
	txn.TaxPayments = []dto.TaxPayment{{CreditAccountID: accTaxLiability, Amount: decimal.NewFromInt(12)}}

	ps, err := s.cash.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsControl, decimal.NewFromInt(12))
	assertSingleEntry(s.T(), entries, domain.Credit, accTaxLiability, decimal.NewFromInt(12))
}

func (s *SavingsEngineTestSuite) TestEscheatMovesBalanceToLiability() {
	ps, err := s.cash.Post(s.ctx, cashSavings(), savingsTxn("310", dto.SavingsEscheat, 900))
	require.NoError(s.T(), err)

	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsControl, decimal.NewFromInt(900))
	assertSingleEntry(s.T(), entries, domain.Credit, accEscheatLiability, decimal.NewFromInt(900))
}

func (s *SavingsEngineTestSuite) TestDividendPayoutDrawsPayableDividends() {
	ps, err := s.cash.Post(s.ctx, cashSavings(), savingsTxn("311", dto.SavingsDividendPayout, 150))
	require.NoError(s.T(), err)

	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Debit, accPayableDividends, decimal.NewFromInt(150))
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsControl, decimal.NewFromInt(150))
}

func (s *SavingsEngineTestSuite) TestTransferLifecycle() {
	ps, err := s.cash.Post(s.ctx, cashSavings(), savingsTxn("312", dto.SavingsInitiateTransfer, 100))
	require.NoError(s.T(), err)
	assertSingleEntry(s.T(), ps.Entries(), domain.Debit, accSavingsControl, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), ps.Entries(), domain.Credit, accSavingsSuspense, decimal.NewFromInt(100))

	ps, err = s.cash.Post(s.ctx, cashSavings(), savingsTxn("313", dto.SavingsApproveTransfer, 100))
	require.NoError(s.T(), err)
	assertSingleEntry(s.T(), ps.Entries(), domain.Debit, accSavingsSuspense, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), ps.Entries(), domain.Credit, accSavingsControl, decimal.NewFromInt(100))
}

func (s *SavingsEngineTestSuite) TestReversedDepositFlipsSides() {
	txn := savingsTxn("314", dto.SavingsDeposit, 500)
	txn.Reversed = true

	ps, err := s.cash.Post(s.ctx, cashSavings(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Credit, accSavingsReference, decimal.NewFromInt(500))
	assertSingleEntry(s.T(), entries, domain.Debit, accSavingsControl, decimal.NewFromInt(500))
}

func TestSavingsEngines(t *testing.T) {
	suite.Run(t, new(SavingsEngineTestSuite))
}
