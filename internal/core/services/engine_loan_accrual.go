package services

import (
	"context"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LoanAccrualEngine books loan transactions under accrual-basis accounting.
// Income is recognised when it falls due via accrual postings against
// receivable accounts; repayments then settle the receivables. Charged-off
// loans route their offsetting side through the charge-off expense and
// recovery income accounts instead.
type LoanAccrualEngine struct {
	helper *PostingHelper
}

func NewLoanAccrualEngine(helper *PostingHelper) *LoanAccrualEngine {
	return &LoanAccrualEngine{helper: helper}
}

var _ loanPostingEngine = (*LoanAccrualEngine)(nil)

func (e *LoanAccrualEngine) Post(ctx context.Context, loan *dto.LoanDTO, txn *dto.LoanTransaction) (*PostingSession, error) {
	ps := NewPostingSession(txn.OfficeID, loan.CurrencyCode, domain.EntityLoan, txn.TransactionID, txn.Date)

	var err error
	switch {
	case txn.Type.IsDisbursement():
		err = e.postDisbursement(ctx, ps, loan, txn)
	case txn.Type.IsAccrual():
		err = e.postAccrual(ctx, ps, loan, txn)
	case txn.Type.IsRepaymentLike():
		err = e.postRepayment(ctx, ps, loan, txn, false, txn.Type == dto.LoanRepaymentAtDisbursal)
	case txn.Type.IsRecoveryRepayment():
		err = e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanFundSource, domain.LoanRecoveryIncome, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case txn.Type.IsRefund():
		err = e.postRefund(ctx, ps, loan, txn)
	case txn.Type.IsCreditBalanceRefund():
		err = e.postCreditBalanceRefund(ctx, ps, loan, txn)
	case txn.Type.IsWriteOff(), txn.Type.IsWaiveInterest(), txn.Type.IsWaiveCharges():
		err = e.postRepayment(ctx, ps, loan, txn, true, false)
	case txn.Type.IsRefundForActiveLoan():
		err = e.postRefundForActiveLoan(ctx, ps, loan, txn)
	case txn.Type.IsChargeback():
		err = e.postChargeback(ctx, ps, loan, txn)
	case txn.Type.IsChargeAdjustment():
		err = e.postChargeAdjustment(ctx, ps, loan, txn)
	case txn.Type.IsChargeOff():
		err = e.postChargeOff(ctx, ps, loan, txn)
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

func (e *LoanAccrualEngine) resolve(ctx context.Context, loan *dto.LoanDTO, role domain.AccountRole, paymentTypeID *int64) (int64, error) {
	return e.helper.Resolver.ResolveID(ctx, domain.ProductLoan, loan.ProductID, role, paymentTypeID, nil)
}

// addPair folds one component into both the credit and debit accumulators.
func (e *LoanAccrualEngine) addPair(ctx context.Context, loan *dto.LoanDTO, paymentTypeID *int64, creditRole, debitRole domain.AccountRole, amount decimal.Decimal, credits, debits *accountAmounts) error {
	creditID, err := e.resolve(ctx, loan, creditRole, paymentTypeID)
	if err != nil {
		return err
	}
	credits.add(creditID, amount)
	debitID, err := e.resolve(ctx, loan, debitRole, paymentTypeID)
	if err != nil {
		return err
	}
	debits.add(debitID, amount)
	return nil
}

func (e *LoanAccrualEngine) postDisbursement(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
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

// postAccrual recognises due interest, fees and penalties: each component
// debits its receivable and credits its income account, fee and penalty
// income split per charge.
func (e *LoanAccrualEngine) postAccrual(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	if err := e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.LoanInterestReceivable, domain.LoanInterestIncome, txn.PaymentTypeID, txn.Interest, txn.Reversed); err != nil {
		return err
	}

	if txn.Fees.IsPositive() {
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Debit, domain.LoanFeesReceivable, txn.PaymentTypeID, txn.Fees, txn.Reversed); err != nil {
			return err
		}
		if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanFeeIncome, domain.Credit, txn.FeePayments, txn.Fees, txn.Reversed); err != nil {
			return err
		}
	}

	if txn.Penalties.IsPositive() {
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Debit, domain.LoanPenaltiesReceivable, txn.PaymentTypeID, txn.Penalties, txn.Reversed); err != nil {
			return err
		}
		if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanPenaltyIncome, domain.Credit, txn.PenaltyPayments, txn.Penalties, txn.Reversed); err != nil {
			return err
		}
	}
	return nil
}

func (e *LoanAccrualEngine) postRepayment(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction, writeOff, incomeFromFee bool) error {
	if loan.MarkedAsChargeOff {
		return e.postChargedOffRepayment(ctx, ps, loan, txn, writeOff, incomeFromFee)
	}
	return e.postOrdinaryRepayment(ctx, ps, loan, txn, writeOff, incomeFromFee)
}

// postOrdinaryRepayment settles receivables for loans that are not charged
// off: components are credited to portfolio/receivable accounts and a single
// aggregated debit covers the total. Goodwill credits debit the goodwill
// expense and goodwill income accounts instead of the fund source.
func (e *LoanAccrualEngine) postOrdinaryRepayment(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction, writeOff, incomeFromFee bool) error {
	reversal := txn.Reversed
	goodwill := txn.Type.IsGoodwillCredit()
	totalDebit := decimal.Zero

	credits := newAccountAmounts()
	goodwillDebits := newAccountAmounts()

	addCredit := func(role domain.AccountRole, amount decimal.Decimal) error {
		id, err := e.resolve(ctx, loan, role, txn.PaymentTypeID)
		if err != nil {
			return err
		}
		credits.add(id, amount)
		return nil
	}
	addGoodwillDebit := func(role domain.AccountRole, amount decimal.Decimal) error {
		id, err := e.resolve(ctx, loan, role, txn.PaymentTypeID)
		if err != nil {
			return err
		}
		goodwillDebits.add(id, amount)
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
		if err := addCredit(domain.LoanInterestReceivable, txn.Interest); err != nil {
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
		if incomeFromFee {
			// Repayment at disbursement recognises the fee straight to
			// income, split per charge.
			if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
				domain.LoanFeeIncome, domain.Credit, txn.FeePayments, txn.Fees, reversal); err != nil {
				return err
			}
		} else {
			if err := addCredit(domain.LoanFeesReceivable, txn.Fees); err != nil {
				return err
			}
		}
		if goodwill {
			if err := addGoodwillDebit(domain.LoanGoodwillCreditFeesIncome, txn.Fees); err != nil {
				return err
			}
		}
	}

	if txn.Penalties.IsPositive() {
		totalDebit = totalDebit.Add(txn.Penalties)
		role := domain.LoanPenaltiesReceivable
		if incomeFromFee {
			role = domain.LoanPenaltyIncome
		}
		if err := addCredit(role, txn.Penalties); err != nil {
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

	return e.postChargeRefundPair(ctx, ps, loan, txn, totalDebit, reversal)
}

// postChargedOffRepayment routes repayment components for charged-off loans.
// The account pair per component depends on the repayment sub-type: refunds
// of charged-off money go back against the charge-off expense and income
// accounts, goodwill credits and plain repayments are recoveries.
func (e *LoanAccrualEngine) postChargedOffRepayment(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction, writeOff, incomeFromFee bool) error {
	reversal := txn.Reversed
	totalDebit := decimal.Zero

	credits := newAccountAmounts()
	debits := newAccountAmounts()

	refund := txn.Type.IsMerchantIssuedRefund() || txn.Type.IsPayoutRefund()
	goodwill := txn.Type.IsGoodwillCredit()
	plainRepayment := txn.Type == dto.LoanRepayment

	if txn.Principal.IsPositive() {
		totalDebit = totalDebit.Add(txn.Principal)
		var creditRole, debitRole domain.AccountRole
		switch {
		case refund && loan.MarkedAsFraud:
			creditRole, debitRole = domain.LoanChargeOffFraudExpense, domain.LoanFundSource
		case refund:
			creditRole, debitRole = domain.LoanChargeOffExpense, domain.LoanFundSource
		case goodwill:
			creditRole, debitRole = domain.LoanRecoveryIncome, domain.LoanGoodwillCreditExpense
		case plainRepayment:
			creditRole, debitRole = domain.LoanRecoveryIncome, domain.LoanFundSource
		default:
			creditRole, debitRole = domain.LoanPortfolio, domain.LoanFundSource
		}
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, creditRole, debitRole, txn.Principal, credits, debits); err != nil {
			return err
		}
	}

	if txn.Interest.IsPositive() {
		totalDebit = totalDebit.Add(txn.Interest)
		var creditRole, debitRole domain.AccountRole
		switch {
		case refund:
			creditRole, debitRole = domain.LoanChargeOffInterestIncome, domain.LoanFundSource
		case goodwill:
			creditRole, debitRole = domain.LoanRecoveryIncome, domain.LoanGoodwillCreditInterestIncome
		case plainRepayment:
			creditRole, debitRole = domain.LoanRecoveryIncome, domain.LoanFundSource
		default:
			creditRole, debitRole = domain.LoanInterestReceivable, domain.LoanFundSource
		}
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, creditRole, debitRole, txn.Interest, credits, debits); err != nil {
			return err
		}
	}

	if txn.Fees.IsPositive() {
		totalDebit = totalDebit.Add(txn.Fees)
		switch {
		case refund:
			if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanChargeOffFeesIncome, domain.LoanFundSource, txn.Fees, credits, debits); err != nil {
				return err
			}
		case goodwill:
			if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanRecoveryIncome, domain.LoanGoodwillCreditFeesIncome, txn.Fees, credits, debits); err != nil {
				return err
			}
		case plainRepayment:
			if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanRecoveryIncome, domain.LoanFundSource, txn.Fees, credits, debits); err != nil {
				return err
			}
		case incomeFromFee:
			if err := e.helper.PostAggregatedCharges(ctx, ps, domain.ProductLoan, loan.ProductID,
				domain.LoanFeeIncome, domain.Credit, txn.FeePayments, txn.Fees, reversal); err != nil {
				return err
			}
			debitID, err := e.resolve(ctx, loan, domain.LoanFundSource, txn.PaymentTypeID)
			if err != nil {
				return err
			}
			debits.add(debitID, txn.Fees)
		default:
			if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanFeesReceivable, domain.LoanFundSource, txn.Fees, credits, debits); err != nil {
				return err
			}
		}
	}

	if txn.Penalties.IsPositive() {
		totalDebit = totalDebit.Add(txn.Penalties)
		var creditRole, debitRole domain.AccountRole
		switch {
		case refund:
			creditRole, debitRole = domain.LoanChargeOffPenaltyIncome, domain.LoanFundSource
		case goodwill:
			creditRole, debitRole = domain.LoanRecoveryIncome, domain.LoanGoodwillCreditPenaltyIncome
		case plainRepayment:
			creditRole, debitRole = domain.LoanRecoveryIncome, domain.LoanFundSource
		case incomeFromFee:
			creditRole, debitRole = domain.LoanPenaltyIncome, domain.LoanFundSource
		default:
			creditRole, debitRole = domain.LoanPenaltiesReceivable, domain.LoanFundSource
		}
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, creditRole, debitRole, txn.Penalties, credits, debits); err != nil {
			return err
		}
	}

	if txn.Overpayment.IsPositive() {
		totalDebit = totalDebit.Add(txn.Overpayment)
		debitRole := domain.LoanFundSource
		if goodwill {
			debitRole = domain.LoanGoodwillCreditExpense
		}
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanOverpayment, debitRole, txn.Overpayment, credits, debits); err != nil {
			return err
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
		default:
			debits.postAll(ps, domain.Debit, reversal)
		}
	}

	return e.postChargeRefundPair(ctx, ps, loan, txn, totalDebit, reversal)
}

// postChargeRefundPair adds the extra income/fund-source pair a charge refund
// carries on top of its repayment entry set.
func (e *LoanAccrualEngine) postChargeRefundPair(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction, total decimal.Decimal, reversal bool) error {
	if !total.IsPositive() || !txn.Type.IsChargeRefund() {
		return nil
	}
	incomeRole := domain.LoanFeeIncome
	if txn.ChargeRefundChargeType == "P" {
		incomeRole = domain.LoanPenaltyIncome
	}
	return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		incomeRole, domain.LoanFundSource, txn.PaymentTypeID, total, reversal)
}

func (e *LoanAccrualEngine) postRefund(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	creditRole := domain.LoanFundSource
	if txn.AccountTransfer {
		creditRole = domain.ActivityLiabilityTransfer
	}
	return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.LoanOverpayment, creditRole, txn.PaymentTypeID, txn.Amount, txn.Reversed)
}

// postCreditBalanceRefund debits the principal and overpayment splits and
// credits the fund source with the total. A charged-off loan's principal
// split debits the charge-off (or fraud) expense account instead of the
// portfolio.
func (e *LoanAccrualEngine) postCreditBalanceRefund(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	total := decimal.Zero

	if txn.Principal.IsPositive() {
		total = total.Add(txn.Principal)
		role := domain.LoanPortfolio
		if loan.MarkedAsChargeOff {
			role = domain.LoanChargeOffExpense
			if loan.MarkedAsFraud {
				role = domain.LoanChargeOffFraudExpense
			}
		}
		if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Debit, role, txn.PaymentTypeID, txn.Principal, txn.Reversed); err != nil {
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

func (e *LoanAccrualEngine) postRefundForActiveLoan(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
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

// postChargeback credits the fund source with the full amount and then posts
// only the deltas between what the chargeback credited per component and
// what had actually been paid, signed by which side is larger.
func (e *LoanAccrualEngine) postChargeback(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	reversal := txn.Reversed

	if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Credit, domain.LoanFundSource, txn.PaymentTypeID, txn.Amount, reversal); err != nil {
		return err
	}
	if err := e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.Debit, domain.LoanOverpayment, txn.PaymentTypeID, txn.Overpayment, reversal); err != nil {
		return err
	}

	principalRole := domain.LoanPortfolio
	if loan.MarkedAsChargeOff {
		principalRole = domain.LoanChargeOffExpense
		if loan.MarkedAsFraud {
			principalRole = domain.LoanChargeOffFraudExpense
		}
	}
	feeRole := domain.LoanFeesReceivable
	penaltyRole := domain.LoanPenaltiesReceivable
	if loan.MarkedAsChargeOff {
		feeRole = domain.LoanChargeOffFeesIncome
		penaltyRole = domain.LoanChargeOffPenaltyIncome
	}

	if err := e.postDelta(ctx, ps, loan, txn.PaymentTypeID, principalRole, txn.Principal, txn.PrincipalPaid, reversal); err != nil {
		return err
	}
	if err := e.postDelta(ctx, ps, loan, txn.PaymentTypeID, feeRole, txn.Fees, txn.FeePaid, reversal); err != nil {
		return err
	}
	return e.postDelta(ctx, ps, loan, txn.PaymentTypeID, penaltyRole, txn.Penalties, txn.PenaltyPaid, reversal)
}

// postDelta books credited-minus-paid as a debit when the chargeback credited
// more than was paid, and paid-minus-credited as a credit otherwise.
func (e *LoanAccrualEngine) postDelta(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, paymentTypeID *int64, role domain.AccountRole, credited, paid decimal.Decimal, reversal bool) error {
	switch credited.Cmp(paid) {
	case 1:
		return e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Debit, role, paymentTypeID, credited.Sub(paid), reversal)
	case -1:
		return e.helper.PostByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.Credit, role, paymentTypeID, paid.Sub(credited), reversal)
	}
	return nil
}

// postChargeAdjustment gives back a charge: components are credited to their
// receivable accounts (or the charge-off income accounts for a charged-off
// loan) and a single debit, refined by the adjusted charge, is taken from fee
// or penalty income.
func (e *LoanAccrualEngine) postChargeAdjustment(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	reversal := txn.Reversed
	total := decimal.Zero
	credits := newAccountAmounts()

	addCredit := func(role domain.AccountRole, amount decimal.Decimal) error {
		if !amount.IsPositive() {
			return nil
		}
		total = total.Add(amount)
		id, err := e.resolve(ctx, loan, role, txn.PaymentTypeID)
		if err != nil {
			return err
		}
		credits.add(id, amount)
		return nil
	}

	if loan.MarkedAsChargeOff {
		if err := addCredit(domain.LoanChargeOffFeesIncome, txn.Principal); err != nil {
			return err
		}
		if err := addCredit(domain.LoanChargeOffFeesIncome, txn.Interest); err != nil {
			return err
		}
		if err := addCredit(domain.LoanChargeOffFeesIncome, txn.Fees); err != nil {
			return err
		}
		if err := addCredit(domain.LoanChargeOffPenaltyIncome, txn.Penalties); err != nil {
			return err
		}
	} else {
		if err := addCredit(domain.LoanPortfolio, txn.Principal); err != nil {
			return err
		}
		if err := addCredit(domain.LoanInterestReceivable, txn.Interest); err != nil {
			return err
		}
		if err := addCredit(domain.LoanFeesReceivable, txn.Fees); err != nil {
			return err
		}
		if err := addCredit(domain.LoanPenaltiesReceivable, txn.Penalties); err != nil {
			return err
		}
	}
	if err := addCredit(domain.LoanOverpayment, txn.Overpayment); err != nil {
		return err
	}

	credits.postAll(ps, domain.Credit, reversal)

	if total.IsPositive() && txn.ChargeData != nil {
		role := domain.LoanFeeIncome
		if txn.ChargeData.Penalty {
			role = domain.LoanPenaltyIncome
		}
		return e.helper.PostChargeDebit(ctx, ps, domain.ProductLoan, loan.ProductID,
			role, txn.ChargeData.ChargeID, total, reversal)
	}
	return nil
}

// postChargeOff moves the loan off the books: every component credits its
// portfolio or receivable account and debits the matching charge-off expense
// or income-from-charge-off account, both sides folded per resolved account.
func (e *LoanAccrualEngine) postChargeOff(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	credits := newAccountAmounts()
	debits := newAccountAmounts()

	if txn.Principal.IsPositive() {
		expenseRole := domain.LoanChargeOffExpense
		if loan.MarkedAsFraud {
			expenseRole = domain.LoanChargeOffFraudExpense
		}
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanPortfolio, expenseRole, txn.Principal, credits, debits); err != nil {
			return err
		}
	}
	if txn.Interest.IsPositive() {
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanInterestReceivable, domain.LoanChargeOffInterestIncome, txn.Interest, credits, debits); err != nil {
			return err
		}
	}
	if txn.Fees.IsPositive() {
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanFeesReceivable, domain.LoanChargeOffFeesIncome, txn.Fees, credits, debits); err != nil {
			return err
		}
	}
	if txn.Penalties.IsPositive() {
		if err := e.addPair(ctx, loan, txn.PaymentTypeID, domain.LoanPenaltiesReceivable, domain.LoanChargeOffPenaltyIncome, txn.Penalties, credits, debits); err != nil {
			return err
		}
	}

	credits.postAll(ps, domain.Credit, txn.Reversed)
	debits.postAll(ps, domain.Debit, txn.Reversed)
	return nil
}

func (e *LoanAccrualEngine) postTransfer(ctx context.Context, ps *PostingSession, loan *dto.LoanDTO, txn *dto.LoanTransaction) error {
	if txn.Type.IsInitiateTransfer() {
		return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
			domain.LoanTransfersSuspense, domain.LoanPortfolio, nil, txn.Principal, txn.Reversed)
	}
	return e.helper.PostPairByRole(ctx, ps, domain.ProductLoan, loan.ProductID,
		domain.LoanPortfolio, domain.LoanTransfersSuspense, nil, txn.Principal, txn.Reversed)
}
