package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/subledger/internal/core/ports/services"
	"github.com/corebank/subledger/internal/middleware"
	"github.com/google/uuid"
)

// JournalEntryReversalService mirrors previously posted entry sets: each
// original entry gets one reversal entry with the sides swapped, and the
// original is marked reversed and linked to its mirror.
type JournalEntryReversalService struct {
	helper    *PostingHelper
	entryRepo portsrepo.JournalEntryRepositoryFacade
}

func NewJournalEntryReversalService(helper *PostingHelper, entryRepo portsrepo.JournalEntryRepositoryFacade) *JournalEntryReversalService {
	return &JournalEntryReversalService{helper: helper, entryRepo: entryRepo}
}

var _ portssvc.JournalEntryReverserSvc = (*JournalEntryReversalService)(nil)

// RevertJournalEntry reverses the whole entry set of one business transaction
// id. A lone entry cannot be reversed safely: its pair is missing, so
// mirroring it would break the balance invariant. The branch closure guard is
// re-applied against the original entry dates, since closing a period after
// the fact blocks reversing entries dated inside it.
func (s *JournalEntryReversalService) RevertJournalEntry(ctx context.Context, transactionID string, comment string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	originals, err := s.entryRepo.FindUnreversedByTransactionID(ctx, transactionID)
	if err != nil {
		return "", err
	}
	if len(originals) <= 1 {
		return "", fmt.Errorf("transaction %s has %d unreversed entries, need at least a balanced pair: %w",
			transactionID, len(originals), apperrors.ErrValidation)
	}

	if err := s.checkClosures(ctx, originals); err != nil {
		return "", err
	}

	reversalTransactionID := uuid.NewString()
	reversals := make([]domain.JournalEntry, len(originals))
	for i, original := range originals {
		entryComment := comment
		if entryComment == "" {
			entryComment = defaultReversalComment(original.JournalEntryID, transactionID)
		}
		reversals[i] = mirrorEntry(original, reversalTransactionID, original.EntryDate, entryComment)
		reversals[i].ManualEntry = true
	}

	if err := s.entryRepo.SaveReversals(ctx, originals, reversals); err != nil {
		return "", err
	}
	logger.Info("Reversed journal entries",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_transaction_id", reversalTransactionID),
		slog.Int("entries", len(originals)))
	return reversalTransactionID, nil
}

// RevertProvisioningJournalEntries reverses a provisioning run. Provisioning
// reversals keep the original transaction id and are not marked manual; the
// entries are located through the entity link rather than the transaction id.
func (s *JournalEntryReversalService) RevertProvisioningJournalEntries(ctx context.Context, reversalDate time.Time, entityID int64) (string, error) {
	originals, err := s.entryRepo.FindUnreversedByEntity(ctx, domain.EntityProvisioning, entityID)
	if err != nil {
		return "", err
	}
	if len(originals) == 0 {
		return "", fmt.Errorf("provisioning entry %d has no unreversed journal entries: %w", entityID, apperrors.ErrNotFound)
	}

	if err := s.checkClosureForDate(ctx, originals, reversalDate); err != nil {
		return "", err
	}

	transactionID := domain.EntityProvisioning.TransactionIDPrefix() + strconv.FormatInt(entityID, 10)
	reversals := make([]domain.JournalEntry, len(originals))
	for i, original := range originals {
		reversals[i] = mirrorEntry(original, transactionID, reversalDate,
			defaultReversalComment(original.JournalEntryID, transactionID))
	}

	if err := s.entryRepo.SaveReversals(ctx, originals, reversals); err != nil {
		return "", err
	}
	return transactionID, nil
}

// RevertShareAccountJournalEntries reverses the entry sets of the given share
// transactions. Transactions that never produced entries are skipped, which
// lets rejection flows pass the whole batch without checking first.
func (s *JournalEntryReversalService) RevertShareAccountJournalEntries(ctx context.Context, shareTransactionIDs []int64, reversalDate time.Time) error {
	for _, id := range shareTransactionIDs {
		transactionID := domain.EntityShares.TransactionIDPrefix() + strconv.FormatInt(id, 10)
		originals, err := s.entryRepo.FindUnreversedByTransactionID(ctx, transactionID)
		if err != nil {
			return err
		}
		if len(originals) == 0 {
			continue
		}
		if err := s.checkClosureForDate(ctx, originals, reversalDate); err != nil {
			return err
		}
		reversals := make([]domain.JournalEntry, len(originals))
		for i, original := range originals {
			reversals[i] = mirrorEntry(original, transactionID, reversalDate,
				defaultReversalComment(original.JournalEntryID, transactionID))
		}
		if err := s.entryRepo.SaveReversals(ctx, originals, reversals); err != nil {
			return err
		}
	}
	return nil
}

// checkClosures applies the branch closure guard per distinct office against
// each original entry's own date.
func (s *JournalEntryReversalService) checkClosures(ctx context.Context, originals []domain.JournalEntry) error {
	type officeDate struct {
		officeID int64
		date     time.Time
	}
	seen := make(map[officeDate]bool)
	for _, entry := range originals {
		key := officeDate{entry.OfficeID, entry.EntryDate}
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := s.helper.CheckClosure(ctx, entry.OfficeID, entry.EntryDate); err != nil {
			return err
		}
	}
	return nil
}

func (s *JournalEntryReversalService) checkClosureForDate(ctx context.Context, originals []domain.JournalEntry, reversalDate time.Time) error {
	seen := make(map[int64]bool)
	for _, entry := range originals {
		if seen[entry.OfficeID] {
			continue
		}
		seen[entry.OfficeID] = true
		if err := s.helper.CheckClosure(ctx, entry.OfficeID, reversalDate); err != nil {
			return err
		}
	}
	return nil
}

// mirrorEntry builds the reversal of one entry: same office, account,
// currency and amount, opposite type, fresh running-balance state.
func mirrorEntry(original domain.JournalEntry, transactionID string, entryDate time.Time, comment string) domain.JournalEntry {
	var entity *domain.EntityRef
	if original.Entity != nil {
		ref := *original.Entity
		entity = &ref
	}
	return domain.JournalEntry{
		OfficeID:             original.OfficeID,
		GLAccountID:          original.GLAccountID,
		CurrencyCode:         original.CurrencyCode,
		TransactionID:        transactionID,
		EntryDate:            entryDate,
		SubmittedOn:          time.Now(),
		Type:                 original.Type.Opposite(),
		Amount:               original.Amount,
		Entity:               entity,
		LoanTransactionID:    original.LoanTransactionID,
		SavingsTransactionID: original.SavingsTransactionID,
		ClientTransactionID:  original.ClientTransactionID,
		ShareTransactionID:   original.ShareTransactionID,
		ReferenceNumber:      original.ReferenceNumber,
		Comments:             comment,
	}
}

func defaultReversalComment(journalEntryID int64, transactionID string) string {
	return fmt.Sprintf("Reversal entry for Journal Entry with Entry Id :%d and transaction Id %s", journalEntryID, transactionID)
}
