package services_test

import (
	"context"
	"testing"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/core/services"
	"github.com/corebank/subledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Accounts specific to the accrual role set.
const (
	accInterestReceivable  = int64(13)
	accFeesReceivable      = int64(14)
	accPenaltiesReceivable = int64(15)
	accChargeOffExpense    = int64(16)
	accChargeOffFraud      = int64(17)
	accCOInterestIncome    = int64(18)
	accCOFeesIncome        = int64(19)
	accCOPenaltyIncome     = int64(20)
)

func accrualLoanLedger() (*fakeLedger, *services.PostingHelper) {
	ledger, helper := loanLedger()
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanInterestReceivable, accInterestReceivable, domain.Asset)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanFeesReceivable, accFeesReceivable, domain.Asset)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanPenaltiesReceivable, accPenaltiesReceivable, domain.Asset)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanChargeOffExpense, accChargeOffExpense, domain.Expense)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanChargeOffFraudExpense, accChargeOffFraud, domain.Expense)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanChargeOffInterestIncome, accCOInterestIncome, domain.Income)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanChargeOffFeesIncome, accCOFeesIncome, domain.Income)
	ledger.mapRole(domain.ProductLoan, loanProductID, domain.LoanChargeOffPenaltyIncome, accCOPenaltyIncome, domain.Income)
	return ledger, helper
}

func accrualLoan() *dto.LoanDTO {
	return &dto.LoanDTO{
		LoanID:                         55,
		ProductID:                      loanProductID,
		OfficeID:                       1,
		CurrencyCode:                   "USD",
		PeriodicAccrualBasedAccounting: true,
	}
}

type LoanAccrualEngineTestSuite struct {
	suite.Suite

	ledger *fakeLedger
	engine *services.LoanAccrualEngine
	ctx    context.Context
}

func (s *LoanAccrualEngineTestSuite) SetupTest() {
	var helper *services.PostingHelper
	s.ledger, helper = accrualLoanLedger()
	s.engine = services.NewLoanAccrualEngine(helper)
	s.ctx = context.Background()
}

func (s *LoanAccrualEngineTestSuite) TestAccrualRecognisesDueIncome() {
	txn := loanTxn("201", dto.LoanAccrual)
	txn.Interest = decimal.NewFromInt(100)
	txn.Fees = decimal.NewFromInt(20)
	txn.FeePayments = []dto.ChargePayment{{ChargeID: feeChargeID, Amount: decimal.NewFromInt(20)}}

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 4)
	assertSingleEntry(s.T(), entries, domain.Debit, accInterestReceivable, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), entries, domain.Credit, accInterestIncome, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), entries, domain.Debit, accFeesReceivable, decimal.NewFromInt(20))
	assertSingleEntry(s.T(), entries, domain.Credit, accFeeIncome, decimal.NewFromInt(20))
	assertBalanced(s.T(), entries)
}

func (s *LoanAccrualEngineTestSuite) TestRepaymentSettlesReceivables() {
	txn := loanTxn("202", dto.LoanRepayment)
	txn.Amount = decimal.NewFromInt(720)
	txn.Principal = decimal.NewFromInt(600)
	txn.Interest = decimal.NewFromInt(100)
	txn.Fees = decimal.NewFromInt(20)

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 4)
	assertSingleEntry(s.T(), entries, domain.Credit, accPortfolio, decimal.NewFromInt(600))
	assertSingleEntry(s.T(), entries, domain.Credit, accInterestReceivable, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), entries, domain.Credit, accFeesReceivable, decimal.NewFromInt(20))
	assertSingleEntry(s.T(), entries, domain.Debit, accFundSource, decimal.NewFromInt(720))
}

func (s *LoanAccrualEngineTestSuite) TestRepaymentAtDisbursalTakesFeeToIncome() {
	txn := loanTxn("203", dto.LoanRepaymentAtDisbursal)
	txn.Amount = decimal.NewFromInt(20)
	txn.Fees = decimal.NewFromInt(20)
	txn.FeePayments = []dto.ChargePayment{{ChargeID: feeChargeID, Amount: decimal.NewFromInt(20)}}

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 2)
	assertSingleEntry(s.T(), entries, domain.Credit, accFeeIncome, decimal.NewFromInt(20))
	assertSingleEntry(s.T(), entries, domain.Debit, accFundSource, decimal.NewFromInt(20))
}

func (s *LoanAccrualEngineTestSuite) TestChargeOffMovesLoanOffBooks() {
	txn := loanTxn("204", dto.LoanChargeOff)
	txn.Principal = decimal.NewFromInt(500)
	txn.Interest = decimal.NewFromInt(50)

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 4)
	assertSingleEntry(s.T(), entries, domain.Credit, accPortfolio, decimal.NewFromInt(500))
	assertSingleEntry(s.T(), entries, domain.Debit, accChargeOffExpense, decimal.NewFromInt(500))
	assertSingleEntry(s.T(), entries, domain.Credit, accInterestReceivable, decimal.NewFromInt(50))
	assertSingleEntry(s.T(), entries, domain.Debit, accCOInterestIncome, decimal.NewFromInt(50))
}

func (s *LoanAccrualEngineTestSuite) TestChargeOffFraudLoanDebitsFraudExpense() {
	loan := accrualLoan()
	loan.MarkedAsFraud = true
	txn := loanTxn("205", dto.LoanChargeOff)
	txn.Principal = decimal.NewFromInt(500)

	ps, err := s.engine.Post(s.ctx, loan, txn)
	require.NoError(s.T(), err)

	assertSingleEntry(s.T(), ps.Entries(), domain.Debit, accChargeOffFraud, decimal.NewFromInt(500))
}

func (s *LoanAccrualEngineTestSuite) TestChargedOffRepaymentIsRecovery() {
	loan := accrualLoan()
	loan.MarkedAsChargeOff = true
	txn := loanTxn("206", dto.LoanRepayment)
	txn.Amount = decimal.NewFromInt(150)
	txn.Principal = decimal.NewFromInt(100)
	txn.Interest = decimal.NewFromInt(50)

	ps, err := s.engine.Post(s.ctx, loan, txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	// Both components fold into one recovery income credit and one fund
	// source debit.
	require.Len(s.T(), entries, 2)
	assertSingleEntry(s.T(), entries, domain.Credit, accRecoveryIncome, decimal.NewFromInt(150))
	assertSingleEntry(s.T(), entries, domain.Debit, accFundSource, decimal.NewFromInt(150))
}

func (s *LoanAccrualEngineTestSuite) TestChargedOffRefundUnwindsChargeOff() {
	loan := accrualLoan()
	loan.MarkedAsChargeOff = true
	txn := loanTxn("207", dto.LoanMerchantIssuedRefund)
	txn.Amount = decimal.NewFromInt(130)
	txn.Principal = decimal.NewFromInt(100)
	txn.Interest = decimal.NewFromInt(30)

	ps, err := s.engine.Post(s.ctx, loan, txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	assertSingleEntry(s.T(), entries, domain.Credit, accChargeOffExpense, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), entries, domain.Credit, accCOInterestIncome, decimal.NewFromInt(30))
	assertSingleEntry(s.T(), entries, domain.Debit, accFundSource, decimal.NewFromInt(130))
}

func (s *LoanAccrualEngineTestSuite) TestChargebackPostsUnpaidDelta() {
	txn := loanTxn("208", dto.LoanChargeback)
	txn.Amount = decimal.NewFromInt(100)
	txn.Principal = decimal.NewFromInt(60)
	txn.PrincipalPaid = decimal.Zero
	txn.Overpayment = decimal.NewFromInt(40)

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 3)
	assertSingleEntry(s.T(), entries, domain.Credit, accFundSource, decimal.NewFromInt(100))
	assertSingleEntry(s.T(), entries, domain.Debit, accOverpayment, decimal.NewFromInt(40))
	assertSingleEntry(s.T(), entries, domain.Debit, accPortfolio, decimal.NewFromInt(60))
	assertBalanced(s.T(), entries)
}

func (s *LoanAccrualEngineTestSuite) TestChargebackSkipsSettledComponent() {
	txn := loanTxn("209", dto.LoanChargeback)
	txn.Amount = decimal.NewFromInt(100)
	txn.Principal = decimal.NewFromInt(100)
	txn.PrincipalPaid = decimal.NewFromInt(100)
	txn.Overpayment = decimal.NewFromInt(100)

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	// Principal was fully paid: no delta entry for it.
	entries := ps.Entries()
	require.Len(s.T(), entries, 2)
	assert.Empty(s.T(), entriesFor(entries, domain.Debit, accPortfolio))
}

func (s *LoanAccrualEngineTestSuite) TestChargeAdjustmentDebitsChargeIncome() {
	chargeFeeAccount := int64(21)
	s.ledger.mapCharge(domain.ProductLoan, loanProductID, domain.LoanFeeIncome, feeChargeID, chargeFeeAccount, domain.Income)

	txn := loanTxn("210", dto.LoanChargeAdjustment)
	txn.Fees = decimal.NewFromInt(30)
	txn.ChargeData = &dto.LoanChargeData{ChargeID: feeChargeID, Penalty: false}

	ps, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.NoError(s.T(), err)

	entries := ps.Entries()
	require.Len(s.T(), entries, 2)
	assertSingleEntry(s.T(), entries, domain.Credit, accFeesReceivable, decimal.NewFromInt(30))
	assertSingleEntry(s.T(), entries, domain.Debit, chargeFeeAccount, decimal.NewFromInt(30))
}

func (s *LoanAccrualEngineTestSuite) TestAccrualChargeSplitMismatch() {
	txn := loanTxn("211", dto.LoanAccrual)
	txn.Fees = decimal.NewFromInt(20)
	txn.FeePayments = []dto.ChargePayment{{ChargeID: feeChargeID, Amount: decimal.NewFromInt(15)}}

	_, err := s.engine.Post(s.ctx, accrualLoan(), txn)
	require.Error(s.T(), err)
}

func TestLoanAccrualEngine(t *testing.T) {
	suite.Run(t, new(LoanAccrualEngineTestSuite))
}
