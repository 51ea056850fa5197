package services

import (
	"context"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/dto"
)

// SharesCashEngine books share-account transactions. Purchases park the money
// in the shares suspense account until the purchase is approved, at which
// point it becomes equity net of charges; rejections give the money back.
type SharesCashEngine struct {
	helper *PostingHelper
}

func NewSharesCashEngine(helper *PostingHelper) *SharesCashEngine {
	return &SharesCashEngine{helper: helper}
}

var _ sharesPostingEngine = (*SharesCashEngine)(nil)

func (e *SharesCashEngine) Post(ctx context.Context, shares *dto.SharesDTO, txn *dto.SharesTransaction) (*PostingSession, error) {
	ps := NewPostingSession(txn.OfficeID, shares.CurrencyCode, domain.EntityShares, txn.TransactionID, txn.Date)

	var err error
	switch {
	case txn.Type.IsPurchase():
		err = e.postPurchase(ctx, ps, shares, txn)
	case txn.Type.IsRedeem():
		err = e.postRedeem(ctx, ps, shares, txn)
	case txn.Type.IsChargePayment():
		err = e.postChargePayment(ctx, ps, shares, txn)
	}
	if err != nil {
		return nil, err
	}
	if err := ps.CheckBalanced(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (e *SharesCashEngine) postPurchase(ctx context.Context, ps *PostingSession, shares *dto.SharesDTO, txn *dto.SharesTransaction) error {
	switch txn.Status {
	case dto.SharesApplied:
		return e.helper.PostPairByRole(ctx, ps, domain.ProductShares, shares.ProductID,
			domain.SharesReference, domain.SharesSuspense, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	case dto.SharesApproved:
		if err := e.helper.PostByRole(ctx, ps, domain.ProductShares, shares.ProductID,
			domain.Debit, domain.SharesSuspense, txn.PaymentTypeID, txn.Amount, txn.Reversed); err != nil {
			return err
		}
		if err := e.helper.PostByRole(ctx, ps, domain.ProductShares, shares.ProductID,
			domain.Credit, domain.SharesEquity, txn.PaymentTypeID, txn.Amount.Sub(txn.ChargeAmount), txn.Reversed); err != nil {
			return err
		}
		if txn.ChargeAmount.IsPositive() {
			return e.helper.PostAggregatedCharges(ctx, ps, domain.ProductShares, shares.ProductID,
				domain.SharesFeeIncome, domain.Credit, txn.ChargePayments, txn.ChargeAmount, txn.Reversed)
		}
		return nil
	case dto.SharesRejected:
		return e.helper.PostPairByRole(ctx, ps, domain.ProductShares, shares.ProductID,
			domain.SharesSuspense, domain.SharesReference, txn.PaymentTypeID, txn.Amount, txn.Reversed)
	}
	return nil
}

// postRedeem hands equity back to the member: the charge slice stays behind
// as fee income, so the equity debit covers both the payout and the charges.
func (e *SharesCashEngine) postRedeem(ctx context.Context, ps *PostingSession, shares *dto.SharesDTO, txn *dto.SharesTransaction) error {
	if err := e.helper.PostByRole(ctx, ps, domain.ProductShares, shares.ProductID,
		domain.Debit, domain.SharesEquity, txn.PaymentTypeID, txn.Amount.Add(txn.ChargeAmount), txn.Reversed); err != nil {
		return err
	}
	if err := e.helper.PostByRole(ctx, ps, domain.ProductShares, shares.ProductID,
		domain.Credit, domain.SharesReference, txn.PaymentTypeID, txn.Amount, txn.Reversed); err != nil {
		return err
	}
	if txn.ChargeAmount.IsPositive() {
		return e.helper.PostAggregatedCharges(ctx, ps, domain.ProductShares, shares.ProductID,
			domain.SharesFeeIncome, domain.Credit, txn.ChargePayments, txn.ChargeAmount, txn.Reversed)
	}
	return nil
}

func (e *SharesCashEngine) postChargePayment(ctx context.Context, ps *PostingSession, shares *dto.SharesDTO, txn *dto.SharesTransaction) error {
	if err := e.helper.PostByRole(ctx, ps, domain.ProductShares, shares.ProductID,
		domain.Debit, domain.SharesReference, txn.PaymentTypeID, txn.Amount, txn.Reversed); err != nil {
		return err
	}
	return e.helper.PostAggregatedCharges(ctx, ps, domain.ProductShares, shares.ProductID,
		domain.SharesFeeIncome, domain.Credit, txn.ChargePayments, txn.Amount, txn.Reversed)
}
