package services

import (
	"context"
	"fmt"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/dto"
)

// ClientCashEngine books client charge payments. Client charges have no
// product behind them: each charge carries its own income account, and the
// offsetting debit comes from the organization's asset fund source activity.
type ClientCashEngine struct {
	helper *PostingHelper
}

func NewClientCashEngine(helper *PostingHelper) *ClientCashEngine {
	return &ClientCashEngine{helper: helper}
}

func (e *ClientCashEngine) Post(ctx context.Context, txn *dto.ClientTransactionDTO) (*PostingSession, error) {
	ps := NewPostingSession(txn.OfficeID, txn.CurrencyCode, domain.EntityClient, txn.TransactionID, txn.Date)

	// A waived charge is the payment set with its sides swapped.
	reversal := txn.Reversed
	if txn.Type.IsWaiveCharge() {
		reversal = !reversal
	}

	folded := newAccountAmounts()
	for _, payment := range txn.ChargePayments {
		if payment.IncomeAccountID == nil || !payment.Amount.IsPositive() {
			continue
		}
		folded.add(*payment.IncomeAccountID, payment.Amount)
	}

	posted := folded.total()
	if !posted.Equal(txn.Amount) {
		return nil, &apperrors.ChargeSplitMismatchError{Expected: txn.Amount, Posted: posted}
	}
	if !posted.IsPositive() {
		return nil, fmt.Errorf("client transaction %s carries no postable charge amount: %w",
			txn.TransactionID, apperrors.ErrValidation)
	}

	folded.postAll(ps, domain.Credit, reversal)

	fundSourceID, err := e.helper.Resolver.ResolveID(ctx, "", 0, domain.ActivityAssetFundSource, nil, nil)
	if err != nil {
		return nil, err
	}
	ps.Post(domain.Debit, fundSourceID, posted, reversal)

	if err := ps.CheckBalanced(); err != nil {
		return nil, err
	}
	return ps, nil
}
