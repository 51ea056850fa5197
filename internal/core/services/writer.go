package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/subledger/internal/core/ports/services"
	"github.com/corebank/subledger/internal/dto"
	"github.com/corebank/subledger/internal/middleware"
)

// JournalEntryWriterService turns bridge snapshots into persisted journal
// entries. Engines only build entry sets in memory; this service owns the
// closure checks and hands each balanced set to the repository in one
// transaction, so a failure partway never leaves a half-posted transaction
// behind.
type JournalEntryWriterService struct {
	helper      *PostingHelper
	entryRepo   portsrepo.JournalEntryWriter
	loanCash    loanPostingEngine
	loanAccrual loanPostingEngine
	savingsCash savingsPostingEngine
	savingsAccr savingsPostingEngine
	sharesCash  sharesPostingEngine
	clientCash  *ClientCashEngine
}

func NewJournalEntryWriterService(helper *PostingHelper, entryRepo portsrepo.JournalEntryWriter) *JournalEntryWriterService {
	return &JournalEntryWriterService{
		helper:      helper,
		entryRepo:   entryRepo,
		loanCash:    NewLoanCashEngine(helper),
		loanAccrual: NewLoanAccrualEngine(helper),
		savingsCash: NewSavingsCashEngine(helper),
		savingsAccr: NewSavingsAccrualEngine(helper),
		sharesCash:  NewSharesCashEngine(helper),
		clientCash:  NewClientCashEngine(helper),
	}
}

var _ portssvc.JournalEntryWriterSvc = (*JournalEntryWriterService)(nil)

func (s *JournalEntryWriterService) CreateJournalEntriesForLoan(ctx context.Context, bridgeData map[string]interface{}) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := dto.AssembleLoanDTO(bridgeData)
	if err != nil {
		return fmt.Errorf("assembling loan snapshot: %w", err)
	}

	var engine loanPostingEngine
	switch {
	case loan.CashBasedAccounting:
		engine = s.loanCash
	case loan.AccrualBasedAccounting():
		engine = s.loanAccrual
	default:
		return nil
	}

	var entries []domain.JournalEntry
	for i := range loan.NewTransactions {
		txn := &loan.NewTransactions[i]
		if err := s.helper.CheckClosure(ctx, txn.OfficeID, txn.Date); err != nil {
			return err
		}
		ps, err := engine.Post(ctx, loan, txn)
		if err != nil {
			logger.Error("Loan posting failed",
				slog.Int64("loan_id", loan.LoanID),
				slog.String("transaction_id", txn.TransactionID),
				slog.String("type", string(txn.Type)),
				slog.String("error", err.Error()))
			return err
		}
		entries = append(entries, ps.Entries()...)
	}
	return s.saveAll(ctx, entries)
}

func (s *JournalEntryWriterService) CreateJournalEntriesForSavings(ctx context.Context, bridgeData map[string]interface{}) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	savings, err := dto.AssembleSavingsDTO(bridgeData)
	if err != nil {
		return fmt.Errorf("assembling savings snapshot: %w", err)
	}

	var engine savingsPostingEngine
	switch {
	case savings.CashBasedAccounting:
		engine = s.savingsCash
	case savings.AccrualBasedAccounting:
		engine = s.savingsAccr
	default:
		return nil
	}

	var entries []domain.JournalEntry
	for i := range savings.NewTransactions {
		txn := &savings.NewTransactions[i]
		if err := s.helper.CheckClosure(ctx, txn.OfficeID, txn.Date); err != nil {
			return err
		}
		ps, err := engine.Post(ctx, savings, txn)
		if err != nil {
			logger.Error("Savings posting failed",
				slog.Int64("savings_id", savings.SavingsID),
				slog.String("transaction_id", txn.TransactionID),
				slog.String("type", string(txn.Type)),
				slog.String("error", err.Error()))
			return err
		}
		entries = append(entries, ps.Entries()...)
	}
	return s.saveAll(ctx, entries)
}

func (s *JournalEntryWriterService) CreateJournalEntriesForShares(ctx context.Context, bridgeData map[string]interface{}) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	shares, err := dto.AssembleSharesDTO(bridgeData)
	if err != nil {
		return fmt.Errorf("assembling shares snapshot: %w", err)
	}
	if !shares.CashBasedAccounting {
		return nil
	}

	var entries []domain.JournalEntry
	for i := range shares.NewTransactions {
		txn := &shares.NewTransactions[i]
		if err := s.helper.CheckClosure(ctx, txn.OfficeID, txn.Date); err != nil {
			return err
		}
		ps, err := s.sharesCash.Post(ctx, shares, txn)
		if err != nil {
			logger.Error("Share posting failed",
				slog.Int64("share_account_id", shares.ShareAccountID),
				slog.String("transaction_id", txn.TransactionID),
				slog.String("error", err.Error()))
			return err
		}
		entries = append(entries, ps.Entries()...)
	}
	return s.saveAll(ctx, entries)
}

func (s *JournalEntryWriterService) CreateJournalEntriesForClientTransaction(ctx context.Context, bridgeData map[string]interface{}) error {
	txn, err := dto.AssembleClientTransactionDTO(bridgeData)
	if err != nil {
		return fmt.Errorf("assembling client transaction snapshot: %w", err)
	}
	if !txn.AccountingEnabled {
		return nil
	}
	if err := s.helper.CheckClosure(ctx, txn.OfficeID, txn.Date); err != nil {
		return err
	}
	ps, err := s.clientCash.Post(ctx, txn)
	if err != nil {
		return err
	}
	return s.saveAll(ctx, ps.Entries())
}

// CreateProvisioningJournalEntries reserves loan-loss provisions: every line
// debits its expense account and credits its liability account, folded per
// (office, account) pair. The whole run shares one prefixed transaction id.
func (s *JournalEntryWriterService) CreateProvisioningJournalEntries(ctx context.Context, entry dto.ProvisioningDTO) (string, error) {
	if err := s.helper.CheckEntryDate(entry.Date); err != nil {
		return "", err
	}

	checked := make(map[int64]bool)
	sessions := make(map[string]*PostingSession)
	var order []string

	for _, line := range entry.Lines {
		if !line.Amount.IsPositive() {
			continue
		}
		if !checked[line.OfficeID] {
			if err := s.helper.CheckClosure(ctx, line.OfficeID, entry.Date); err != nil {
				return "", err
			}
			checked[line.OfficeID] = true
		}
		key := strconv.FormatInt(line.OfficeID, 10) + ":" + line.CurrencyCode
		ps, ok := sessions[key]
		if !ok {
			ps = NewPostingSession(line.OfficeID, line.CurrencyCode, domain.EntityProvisioning,
				strconv.FormatInt(entry.EntryID, 10), entry.Date)
			sessions[key] = ps
			order = append(order, key)
		}
		ps.PostPair(line.ExpenseAccountID, line.LiabilityAccountID, line.Amount, false)
	}

	var entries []domain.JournalEntry
	for _, key := range order {
		ps := sessions[key]
		if err := ps.CheckBalanced(); err != nil {
			return "", err
		}
		entries = append(entries, ps.Entries()...)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("provisioning entry %d has no positive lines: %w", entry.EntryID, apperrors.ErrValidation)
	}
	if err := s.saveAll(ctx, entries); err != nil {
		return "", err
	}
	return domain.EntityProvisioning.TransactionIDPrefix() + strconv.FormatInt(entry.EntryID, 10), nil
}

func (s *JournalEntryWriterService) saveAll(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.entryRepo.SaveAll(ctx, entries)
}
