package services

import (
	"context"

	"github.com/corebank/subledger/internal/dto"
)

// Posting engines are pure decision tables: each maps one transaction
// snapshot to a session of journal entries and never persists anything
// itself. The writer service owns closure checks and atomic persistence.

type loanPostingEngine interface {
	Post(ctx context.Context, loan *dto.LoanDTO, txn *dto.LoanTransaction) (*PostingSession, error)
}

type savingsPostingEngine interface {
	Post(ctx context.Context, savings *dto.SavingsDTO, txn *dto.SavingsTransaction) (*PostingSession, error)
}

type sharesPostingEngine interface {
	Post(ctx context.Context, shares *dto.SharesDTO, txn *dto.SharesTransaction) (*PostingSession, error)
}
