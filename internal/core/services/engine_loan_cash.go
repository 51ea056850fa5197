package services

import (
	"context"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LoanCashEngine books loan transactions under cash-basis accounting: income
// is recognised only when money moves, so repayment components credit income
// accounts directly and there are no receivable or accrual postings.
type LoanCashEngine struct {
	helper *PostingHelper
}

func NewLoanCashEngine(helper *PostingHelper) *LoanCashEngine {
	return &LoanCashEngine{helper: helper}
}

var _ loanPostingEngine = (*LoanCashEngine)(nil)

func (e *LoanCashEngine) Post(ctx context.Context, loan *dto.LoanDTO, txn *dto.LoanTransaction) (*PostingSession, error) {
	ps := NewPostingSession(txn.OfficeID, loan.CurrencyCode, domain.EntityLoan, txn.TransactionID, txn.Date)

	var err error
	switch {
	case txn.Type.IsDisbursement():
		err = e.postDisbursement(ctx, ps, loan, txn)
	case txn.Type.IsRepaymentLike():
		err = e.postRepayment(ctx, ps, loan, txn, false)
	case txn.Type.IsRecoveryRepayment():
		err = e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanFundSource, domain.LoanRecoveryIncome, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsRefund():
		err = e.postRefund(ctx, ps, loan, txn)
	case txn.Type.IsCreditBalanceRefund():
		err = e.postCreditBalanceRefund(ctx, ps, loan, txn)
	case txn.Type.IsWriteOff(), txn.Type.IsWaiveInterest(), txn.Type.IsWaiveCharges():
		err = e.postRepayment(ctx, ps, loan, txn, true)
	case txn.Type.IsRefundForActiveLoan():
		err = e.postRefundForActiveLoan(ctx, ps, loan, txn)
	case txn.Type.IsTransfer():
		err = e.postTransfer(ctx, ps, loan, txn)
	}
	if err != nil {
		return nil, err
	}
	if err := ps.CheckBalanced(); err != nil {
		return nil, err
	}
	return ps, nil
}

// postDisbursement debits the loan portfolio and credits the fund source, or
// the organization transfer account when the money came from another account.
func (e *LoanCashEngine) postDisbursement(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	overpayment := txn.Overpayment
	principal := txn.Amount.Sub(overpayment)

	if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Debit, domain.LoanPortfolio, txn.PaymentTypeID, principal, txn.Reversed); err != nil {
		return err
	}
	if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Debit, domain.LoanOverpayment, txn.PaymentTypeID, overpayment, txn.Reversed); err != nil {
		return err
	}

	creditRole := domain.LoanFundSource
	switch {
	case txn.LoanToLoanTransfer:
		creditRole = domain.ActivityAssetTransfer
	case txn.AccountTransfer:
		creditRole = domain.ActivityLiabilityTransfer
	}
	return e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Credit, creditRole, txn.PaymentTypeID, txn.Amount, txn.Reversed)
}

// postRepayment books repayments, repayments at disbursement, charge
// payments, goodwill credits and the refund sub-types, plus write-offs and
// waivers when writeOff is set. Components are credited to their income or
// portfolio account; the offsetting debit is a single aggregated entry.
func (e *LoanCashEngine) postRepayment(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction, writeOff bool) error {
	reversal := txn.Reversed
	totalDebit := decimal.Zero

	credits := newAccountAmounts()
	goodwillDebits := newAccountAmounts()
	goodwill := txn.Type.IsGoodwillCredit()

	addCredit := func(role domain.AccountRole, amount decimal.Decimal) error {
		glAccountID, err := e.helper.Resolver.ResolveID(ctx, domain.ProductLoan, loan.ProductID, role, txn.PaymentTypeID, nil)
		if err != nil {
			return err
		}
		credits.add(glAccountID, amount)
		return nil
	}
	addGoodwillDebit := func(role domain.AccountRole, amount decimal.Decimal) error {
		glAccountID, err := e.helper.Resolver.ResolveID(ctx, domain.ProductLoan, loan.ProductID, role, txn.PaymentTypeID, nil)
		if err != nil {
			return err
		}
		goodwillDebits.add(glAccountID, amount)
		return nil
	}

	if txn.Principal.IsPositive() {
		totalDebit = totalDebit.Add(txn.Principal)
		if err := addCredit(domain.LoanPortfolio, txn.Principal); err != nil {
			return err
		}
		if goodwill {
			if err := addGoodwillDebit(domain.LoanGoodwillCreditExpense, txn.Principal); err != nil {
				return err
			}
		}
	}

	if txn.Interest.IsPositive() {
		totalDebit = totalDebit.Add(txn.Interest)
		if err := addCredit(domain.LoanInterestIncome, txn.Interest); err != nil {
			return err
		}
		if goodwill {
			if err := addGoodwillDebit(domain.LoanGoodwillCreditInterestIncome, txn.Interest); err != nil {
				return err
			}
		}
	}

	if txn.Fees.IsPositive() {
		totalDebit = totalDebit.Add(txn.Fees)
		if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanFeeIncome, domain.Credit, txn.FeePayments, txn.Fees, reversal); err != nil {
			return err
		}
		if goodwill {
			if err := addGoodwillDebit(domain.LoanGoodwillCreditFeesIncome, txn.Fees); err != nil {
				return err
			}
		}
	}

	if txn.Penalties.IsPositive() {
		totalDebit = totalDebit.Add(txn.Penalties)
		if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanPenaltyIncome, domain.Credit, txn.PenaltyPayments, txn.Penalties, reversal); err != nil {
			return err
		}
		if goodwill {
			if err := addGoodwillDebit(domain.LoanGoodwillCreditPenaltyIncome, txn.Penalties); err != nil {
				return err
			}
		}
	}

	if txn.Overpayment.IsPositive() {
		totalDebit = totalDebit.Add(txn.Overpayment)
		if err := addCredit(domain.LoanOverpayment, txn.Overpayment); err != nil {
			return err
		}
		if goodwill {
			if err := addGoodwillDebit(domain.LoanGoodwillCreditExpense, txn.Overpayment); err != nil {
				return err
			}
		}
	}

	credits.postAll(ps, domain.Credit, reversal)

	if totalDebit.IsPositive() {
		switch {
		case writeOff:
			if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
				domain.Debit, domain.LoanLossesWrittenOff, txn.PaymentTypeID, totalDebit, reversal); err != nil {
				return err
			}
		case txn.LoanToLoanTransfer:
			if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
				domain.Debit, domain.ActivityAssetTransfer, txn.PaymentTypeID, totalDebit, reversal); err != nil {
				return err
			}
		case txn.AccountTransfer:
			if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
				domain.Debit, domain.ActivityLiabilityTransfer, txn.PaymentTypeID, totalDebit, reversal); err != nil {
				return err
			}
		case goodwill:
			goodwillDebits.postAll(ps, domain.Debit, reversal)
		default:
			if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
				domain.Debit, domain.LoanFundSource, txn.PaymentTypeID, totalDebit, reversal); err != nil {
				return err
			}
		}
	}

	// Charge refunds carry an extra pair on top of the repayment set: income
	// is given back out of the fund source.
	if totalDebit.IsPositive() && txn.Type.IsChargeRefund() {
		incomeRole := domain.LoanFeeIncome
		if txn.ChargeRefundChargeType == "P" {
			incomeRole = domain.LoanPenaltyIncome
		}
		if err := e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			incomeRole, domain.LoanFundSource, txn.PaymentTypeID, totalDebit, reversal); err != nil {
			return err
		}
	}
	return nil
}

// postRefund pays an overpayment back out: debit overpayment, credit fund
// source or the liability transfer account when refunded into another account.
func (e *LoanCashEngine) postRefund(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	creditRole := domain.LoanFundSource
	if txn.AccountTransfer {
		creditRole = domain.ActivityLiabilityTransfer
	}
	return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.LoanOverpayment, creditRole, txn.PaymentTypeID, txn.Amount, txn.Reversed)
}

// postCreditBalanceRefund pays an overpaid balance out: the principal and
// overpayment splits are debited and a single aggregated fund-source credit
// covers the total.
func (e *LoanCashEngine) postCreditBalanceRefund(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	total := decimal.Zero

	if txn.Principal.IsPositive() {
		total = total.Add(txn.Principal)
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Debit, domain.LoanPortfolio, txn.PaymentTypeID, txn.Principal, txn.Reversed); err != nil {
			return err
		}
	}
	if txn.Overpayment.IsPositive() {
		total = total.Add(txn.Overpayment)
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Debit, domain.LoanOverpayment, txn.PaymentTypeID, txn.Overpayment, txn.Reversed); err != nil {
			return err
		}
	}
	return e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Credit, domain.LoanFundSource, txn.PaymentTypeID, total, txn.Reversed)
}

// postRefundForActiveLoan books a repayment with every role inverted: the
// reversal flag is negated for the whole set rather than special-casing each
// leg.
func (e *LoanCashEngine) postRefundForActiveLoan(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	reversal := !txn.Reversed
	totalDebit := decimal.Zero

	if txn.Principal.IsPositive() {
		totalDebit = totalDebit.Add(txn.Principal)
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Credit, domain.LoanPortfolio, txn.PaymentTypeID, txn.Principal, reversal); err != nil {
			return err
		}
	}
	if txn.Interest.IsPositive() {
		totalDebit = totalDebit.Add(txn.Interest)
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Credit, domain.LoanInterestIncome, txn.PaymentTypeID, txn.Interest, reversal); err != nil {
			return err
		}
	}
	if txn.Fees.IsPositive() {
		totalDebit = totalDebit.Add(txn.Fees)
		if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanFeeIncome, domain.Credit, absChargePayments(txn.FeePayments), txn.Fees, reversal); err != nil {
			return err
		}
	}
	if txn.Penalties.IsPositive() {
		totalDebit = totalDebit.Add(txn.Penalties)
		if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanPenaltyIncome, domain.Credit, absChargePayments(txn.PenaltyPayments), txn.Penalties, reversal); err != nil {
			return err
		}
	}
	if txn.Overpayment.IsPositive() {
		totalDebit = totalDebit.Add(txn.Overpayment)
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Credit, domain.LoanOverpayment, txn.PaymentTypeID, txn.Overpayment, reversal); err != nil {
			return err
		}
	}

	return e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Debit, domain.LoanFundSource, txn.PaymentTypeID, totalDebit, reversal)
}

// postTransfer moves principal between the portfolio and the transfer
// suspense account across the transfer lifecycle.
func (e *LoanCashEngine) postTransfer(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	if txn.Type.IsInitiateTransfer() {
		return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanTransfersSuspense, domain.LoanPortfolio, nil, txn.Principal, txn.Reversed)
	}
	return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.LoanPortfolio, domain.LoanTransfersSuspense, nil, txn.Principal, txn.Reversed)
}

// absChargePayments flips negative refund components positive so the charge
// aggregation's conservation check can compare against the component total.
func absChargePayments(payments []dto.ChargePayment) []dto.ChargePayment {
	out := make([]dto.ChargePayment, len(payments))
	for i, p := range payments {
		out[i] = p
		if p.Amount.IsNegative() {
			out[i].Amount = p.Amount.Neg()
		}
	}
	return out
}
