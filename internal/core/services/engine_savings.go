package services

import (
	"context"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/dto"
	"github.com/shopspring/decimal"
)

// SavingsCashEngine books savings transactions under cash-basis accounting.
// The savings control account is the liability owed to depositors; the
// reference account is where the money physically sits. Transactions that
// touch an overdraft split the amount between the overdraft control account
// and the ordinary control account, each portion independently zero-guarded.
type SavingsCashEngine struct {
	helper *PostingHelper
}

func NewSavingsCashEngine(helper *PostingHelper) *SavingsCashEngine {
	return &SavingsCashEngine{helper: helper}
}

var _ savingsPostingEngine = (*SavingsCashEngine)(nil)

func (e *SavingsCashEngine) Post(ctx context.Context, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) (*PostingSession, error) {
	ps := NewPostingSession(txn.OfficeID, savings.CurrencyCode, domain.EntitySavings, txn.TransactionID, txn.Date)
	base := &savingsPostingRules{
		helper:           e.helper,
		interestExpense:  domain.SavingsInterestExpense,
		feeCredit:        domain.SavingsFeeIncome,
		penaltyCredit:    domain.SavingsPenaltyIncome,
		aggregateCharges: true,
	}
	if err := base.post(ctx, ps, savings, txn); err != nil {
		return nil, err
	}
	if err := ps.CheckBalanced(); err != nil {
		return nil, err
	}
	return ps, nil
}

// SavingsAccrualEngine books savings transactions under accrual-basis
// accounting. Interest postings settle the interest payable built up by
// accrual runs, and deducted fees and penalties settle their receivable
// accounts instead of crediting income directly.
type SavingsAccrualEngine struct {
	helper *PostingHelper
}

func NewSavingsAccrualEngine(helper *PostingHelper) *SavingsAccrualEngine {
	return &SavingsAccrualEngine{helper: helper}
}

var _ savingsPostingEngine = (*SavingsAccrualEngine)(nil)

func (e *SavingsAccrualEngine) Post(ctx context.Context, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) (*PostingSession, error) {
	ps := NewPostingSession(txn.OfficeID, savings.CurrencyCode, domain.EntitySavings, txn.TransactionID, txn.Date)
	base := &savingsPostingRules{
		helper:           e.helper,
		interestExpense:  domain.SavingsInterestPayable,
		feeCredit:        domain.SavingsFeesReceivable,
		penaltyCredit:    domain.SavingsPenaltiesReceivable,
		aggregateCharges: false,
	}
	if err := base.post(ctx, ps, savings, txn); err != nil {
		return nil, err
	}
	if err := ps.CheckBalanced(); err != nil {
		return nil, err
	}
	return ps, nil
}

// savingsPostingRules is the category table shared by both bases; the basis
// only swaps the accounts that interest, fee and penalty events settle
// against and whether fee credits are split per charge.
type savingsPostingRules struct {
	helper          *PostingHelper
	interestExpense domain.AccountRole
	feeCredit       domain.AccountRole
	penaltyCredit   domain.AccountRole
	// aggregateCharges splits fee/penalty credits per charge; receivable
	// targets take one folded entry since receivables are never
	// charge-refined.
	aggregateCharges bool
}

func (r *savingsPostingRules) post(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) error {
	switch {
	case txn.Type.IsDeposit():
		return r.postDeposit(ctx, ps, savings, txn)
	case txn.Type.IsWithdrawal():
		return r.postWithdrawal(ctx, ps, savings, txn)
	case txn.Type.IsInterestPosting():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			r.interestExpense, domain.SavingsControl, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsOverdraftInterest():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			domain.SavingsReference, domain.SavingsOverdraftInterestIncome, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsFeeDeduction():
		return r.postChargeDeduction(ctx, ps, savings, txn, r.feeCredit)
	case txn.Type.IsPenaltyDeduction():
		return r.postChargeDeduction(ctx, ps, savings, txn, r.penaltyCredit)
	case txn.Type.IsWaiveCharge():
		// Waiving a charge gives the deduction back: same set, sides
		// swapped via the negated reversal flag.
		return r.postWaiveCharge(ctx, ps, savings, txn)
	case txn.Type.IsWithholdTax():
		return r.postWithholdTax(ctx, ps, savings, txn)
	case txn.Type.IsEscheat():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			domain.SavingsControl, domain.SavingsEscheatLiability, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsDividendPayout():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			domain.ActivityPayableDividends, domain.SavingsControl, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsWriteOff():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			domain.SavingsControl, domain.SavingsLossesWrittenOff, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsInitiateTransfer():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			domain.SavingsControl, domain.SavingsTransfersSuspense, nil, txn.Amount, txn.Reversed)
	case txn.Type.IsApproveTransfer(), txn.Type.IsWithdrawTransfer():
		return r.helper.PostPairByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			domain.SavingsTransfersSuspense, domain.SavingsControl, nil, txn.Amount, txn.Reversed)
	}
	return nil
}

// postDeposit debits the reference account and credits the control account.
// The overdraft slice of a deposit repays the overdraft control instead, and
// transfers take the money from the organization liability transfer account.
func (r *savingsPostingRules) postDeposit(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) error {
	debitRole := domain.SavingsReference
	if txn.AccountTransfer {
		debitRole = domain.ActivityLiabilityTransfer
	}
	if err := r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		domain.Debit, debitRole, txn.PaymentTypeID, txn.Amount, txn.Reversed); err != nil {
		return err
	}
	return r.creditControlSplit(ctx, ps, savings, txn, txn.Amount)
}

// postWithdrawal debits the control account and credits the reference
// account. The overdraft slice of a withdrawal draws the overdraft control.
func (r *savingsPostingRules) postWithdrawal(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) error {
	if err := r.debitControlSplit(ctx, ps, savings, txn, txn.Amount); err != nil {
		return err
	}
	creditRole := domain.SavingsReference
	if txn.AccountTransfer {
		creditRole = domain.ActivityLiabilityTransfer
	}
	return r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		domain.Credit, creditRole, txn.PaymentTypeID, txn.Amount, txn.Reversed)
}

func (r *savingsPostingRules) postChargeDeduction(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction, creditRole domain.AccountRole) error {
	if err := r.debitControlSplit(ctx, ps, savings, txn, txn.Amount); err != nil {
		return err
	}
	return r.creditCharges(ctx, ps, savings, txn, creditRole, txn.Reversed)
}

func (r *savingsPostingRules) postWaiveCharge(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) error {
	creditRole := r.feeCredit
	if txn.PenaltyCharge {
		creditRole = r.penaltyCredit
	}
	reversal := !txn.Reversed
	if err := r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		domain.Debit, domain.SavingsControl, txn.PaymentTypeID, txn.Amount, reversal); err != nil {
		return err
	}
	return r.creditCharges(ctx, ps, savings, txn, creditRole, reversal)
}

func (r *savingsPostingRules) creditCharges(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction, creditRole domain.AccountRole, reversal bool) error {
	if r.aggregateCharges {
		return r.helper.PostAggregatedCharges(ctx, ps, domain.ProductSavings, savings.ProductID,
			creditRole, domain.Credit, txn.ChargePayments, txn.Amount, reversal)
	}
	return r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		domain.Credit, creditRole, txn.PaymentTypeID, txn.Amount, reversal)
}

// postWithholdTax debits the control account and credits each tax component's
// configured liability account.
func (r *savingsPostingRules) postWithholdTax(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) error {
	if err := r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		domain.Debit, domain.SavingsControl, txn.PaymentTypeID, txn.Amount, txn.Reversed); err != nil {
		return err
	}
	for _, tax := range txn.TaxPayments {
		ps.Post(domain.Credit, tax.CreditAccountID, tax.Amount, txn.Reversed)
	}
	return nil
}

func (r *savingsPostingRules) creditControlSplit(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction, amount decimal.Decimal) error {
	return r.controlSplit(ctx, ps, savings, txn, domain.Credit, amount)
}

func (r *savingsPostingRules) debitControlSplit(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction, amount decimal.Decimal) error {
	return r.controlSplit(ctx, ps, savings, txn, domain.Debit, amount)
}

// controlSplit posts against the control account, splitting the overdraft
// portion onto the overdraft control when the transaction touched one.
func (r *savingsPostingRules) controlSplit(ctx context.Context, ps *PostingSession, savings *dto.SavingsDTO, txn *dto.SavingsTransaction, entryType domain.JournalEntryType, amount decimal.Decimal) error {
	if !txn.OverdraftTransaction {
		return r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
			entryType, domain.SavingsControl, txn.PaymentTypeID, amount, txn.Reversed)
	}
	if err := r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		entryType, domain.SavingsOverdraftControl, txn.PaymentTypeID, txn.OverdraftAmount, txn.Reversed); err != nil {
		return err
	}
	return r.helper.PostByRole(ctx, ps, domain.ProductSavings, savings.ProductID,
		entryType, domain.SavingsControl, txn.PaymentTypeID, amount.Sub(txn.OverdraftAmount), txn.Reversed)
}
