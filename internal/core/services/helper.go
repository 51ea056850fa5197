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
	"github.com/corebank/subledger/internal/dto"
	"github.com/corebank/subledger/internal/middleware"
	"github.com/shopspring/decimal"
)

// PostingSession accumulates the journal entries of a single business
// transaction so they can be persisted as one atomic set.
type PostingSession struct {
	OfficeID     int64
	CurrencyCode string
	EntryDate    time.Time

	entity        *domain.EntityRef
	transactionID string
	submittedOn   time.Time
	entries       []domain.JournalEntry
}

// NewPostingSession starts an entry set for one source transaction. A numeric
// source id gets the entity-kind prefix and a back-reference to the source
// record; a non-numeric id is stored verbatim with no back-reference.
func NewPostingSession(officeID int64, currencyCode string, kind domain.EntityKind, sourceTransactionID string, entryDate time.Time) *PostingSession {
	ps := &PostingSession{
		OfficeID:      officeID,
		CurrencyCode:  currencyCode,
		EntryDate:     entryDate,
		transactionID: sourceTransactionID,
		submittedOn:   time.Now(),
	}
	if n, err := strconv.ParseInt(sourceTransactionID, 10, 64); err == nil {
		ps.entity = &domain.EntityRef{Kind: kind, ID: n}
		ps.transactionID = kind.TransactionIDPrefix() + sourceTransactionID
	}
	return ps
}

// TransactionID is the identifier shared by every entry of the session.
func (ps *PostingSession) TransactionID() string {
	return ps.transactionID
}

// Debit appends a debit entry. Amounts that are not strictly positive are
// dropped so callers can pass component amounts without checking each one.
func (ps *PostingSession) Debit(glAccountID int64, amount decimal.Decimal) {
	ps.append(domain.Debit, glAccountID, amount)
}

// Credit appends a credit entry, with the same zero guard as Debit.
func (ps *PostingSession) Credit(glAccountID int64, amount decimal.Decimal) {
	ps.append(domain.Credit, glAccountID, amount)
}

// Post appends an entry of the given type, flipping it when reversal is set.
// Reversed source transactions are booked with swapped sides rather than
// negative amounts.
func (ps *PostingSession) Post(entryType domain.JournalEntryType, glAccountID int64, amount decimal.Decimal, reversal bool) {
	if reversal {
		entryType = entryType.Opposite()
	}
	ps.append(entryType, glAccountID, amount)
}

// PostPair posts amount as a debit against debitAccountID and a credit
// against creditAccountID, swapping the sides when reversal is set.
func (ps *PostingSession) PostPair(debitAccountID, creditAccountID int64, amount decimal.Decimal, reversal bool) {
	ps.Post(domain.Debit, debitAccountID, amount, reversal)
	ps.Post(domain.Credit, creditAccountID, amount, reversal)
}

func (ps *PostingSession) append(entryType domain.JournalEntryType, glAccountID int64, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	entry := domain.JournalEntry{
		OfficeID:      ps.OfficeID,
		GLAccountID:   glAccountID,
		CurrencyCode:  ps.CurrencyCode,
		TransactionID: ps.transactionID,
		EntryDate:     ps.EntryDate,
		SubmittedOn:   ps.submittedOn,
		Type:          entryType,
		Amount:        amount,
	}
	if ps.entity != nil {
		ref := *ps.entity
		entry.Entity = &ref
		id := ref.ID
		switch ref.Kind {
		case domain.EntityLoan:
			entry.LoanTransactionID = &id
		case domain.EntitySavings:
			entry.SavingsTransactionID = &id
		case domain.EntityClient:
			entry.ClientTransactionID = &id
		case domain.EntityShares:
			entry.ShareTransactionID = &id
		}
	}
	ps.entries = append(ps.entries, entry)
}

// Entries returns the accumulated entries in posting order.
func (ps *PostingSession) Entries() []domain.JournalEntry {
	return ps.entries
}

// DebitTotal sums the debit entries of the session.
func (ps *PostingSession) DebitTotal() decimal.Decimal { return ps.total(domain.Debit) }

// CreditTotal sums the credit entries of the session.
func (ps *PostingSession) CreditTotal() decimal.Decimal { return ps.total(domain.Credit) }

func (ps *PostingSession) total(entryType domain.JournalEntryType) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range ps.entries {
		if e.Type == entryType {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// CheckBalanced verifies the double-entry invariant over the whole session.
func (ps *PostingSession) CheckBalanced() error {
	debits := ps.DebitTotal()
	credits := ps.CreditTotal()
	if !debits.Equal(credits) {
		return fmt.Errorf("transaction %s posts debits %s against credits %s: %w",
			ps.transactionID, debits.String(), credits.String(), apperrors.ErrDataIntegrity)
	}
	return nil
}

// accountAmounts folds amounts per GL account in first-seen order. It backs
// the aggregate-then-post shape shared by every engine: components are
// accumulated against resolved accounts first, then emitted as one entry per
// account.
type accountAmounts struct {
	order []int64
	sums  map[int64]decimal.Decimal
}

func newAccountAmounts() *accountAmounts {
	return &accountAmounts{sums: make(map[int64]decimal.Decimal)}
}

func (a *accountAmounts) add(glAccountID int64, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	if _, seen := a.sums[glAccountID]; !seen {
		a.order = append(a.order, glAccountID)
	}
	a.sums[glAccountID] = a.sums[glAccountID].Add(amount)
}

func (a *accountAmounts) total() decimal.Decimal {
	sum := decimal.Zero
	for _, id := range a.order {
		sum = sum.Add(a.sums[id])
	}
	return sum
}

// postAll emits one entry per folded account, preserving insertion order.
func (a *accountAmounts) postAll(ps *PostingSession, entryType domain.JournalEntryType, reversal bool) {
	for _, id := range a.order {
		ps.Post(entryType, id, a.sums[id], reversal)
	}
}

// PostingHelper carries the shared concerns of all posting engines: period
// closure checks, account resolution and charge aggregation.
type PostingHelper struct {
	Resolver          *AccountResolver
	ClosureRepository portsrepo.GLClosureRepository
	OfficeRepository  portsrepo.OfficeRepository
}

func NewPostingHelper(resolver *AccountResolver, closureRepo portsrepo.GLClosureRepository, officeRepo portsrepo.OfficeRepository) *PostingHelper {
	return &PostingHelper{
		Resolver:          resolver,
		ClosureRepository: closureRepo,
		OfficeRepository:  officeRepo,
	}
}

// CheckClosure fails when the office's accounting period is closed on or
// after the entry date. A missing closure row means the office has never
// been closed.
func (h *PostingHelper) CheckClosure(ctx context.Context, officeID int64, entryDate time.Time) error {
	closure, err := h.ClosureRepository.FindLatestByOffice(ctx, officeID)
	if err != nil {
		return err
	}
	if closure != nil && !closure.ClosingDate.Before(entryDate) {
		return &apperrors.ClosedPeriodError{
			OfficeID:    officeID,
			ClosingDate: closure.ClosingDate,
			EntryDate:   entryDate,
		}
	}
	return nil
}

// CheckEntryDate rejects entry dates in the future.
func (h *PostingHelper) CheckEntryDate(entryDate time.Time) error {
	if entryDate.After(time.Now()) {
		return fmt.Errorf("entry date %s is in the future: %w", entryDate.Format("2006-01-02"), apperrors.ErrFutureDate)
	}
	return nil
}

// PostByRole resolves a placeholder role and posts a single entry against it.
func (h *PostingHelper) PostByRole(ctx context.Context, ps *PostingSession, productType domain.ProductType, productID int64, entryType domain.JournalEntryType, role domain.AccountRole, paymentTypeID *int64, amount decimal.Decimal, reversal bool) error {
	if !amount.IsPositive() {
		return nil
	}
	glAccountID, err := h.Resolver.ResolveID(ctx, productType, productID, role, paymentTypeID, nil)
	if err != nil {
		return err
	}
	ps.Post(entryType, glAccountID, amount, reversal)
	return nil
}

// PostPairByRole resolves both sides of a balanced pair and posts them.
func (h *PostingHelper) PostPairByRole(ctx context.Context, ps *PostingSession, productType domain.ProductType, productID int64, debitRole, creditRole domain.AccountRole, paymentTypeID *int64, amount decimal.Decimal, reversal bool) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := h.PostByRole(ctx, ps, productType, productID, domain.Debit, debitRole, paymentTypeID, amount, reversal); err != nil {
		return err
	}
	return h.PostByRole(ctx, ps, productType, productID, domain.Credit, creditRole, paymentTypeID, amount, reversal)
}

// PostAggregatedCharges resolves the target account for each charge payment,
// folds the amounts per resolved account and posts a single entry per
// account. The folded total must equal expected to the cent; a mismatch
// means the product's charge-to-account configuration lost or invented
// money, which is a data integrity failure rather than a validation error.
func (h *PostingHelper) PostAggregatedCharges(ctx context.Context, ps *PostingSession, productType domain.ProductType, productID int64, role domain.AccountRole, entryType domain.JournalEntryType, payments []dto.ChargePayment, expected decimal.Decimal, reversal bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	folded := newAccountAmounts()
	for _, payment := range payments {
		if !payment.Amount.IsPositive() {
			continue
		}
		chargeID := payment.ChargeID
		glAccountID, err := h.Resolver.ResolveID(ctx, productType, productID, role, nil, &chargeID)
		if err != nil {
			return err
		}
		folded.add(glAccountID, payment.Amount)
	}

	posted := folded.total()
	if !posted.Equal(expected) {
		logger.Error("Charge split does not reconcile with transaction amount",
			slog.String("expected", expected.String()),
			slog.String("posted", posted.String()),
			slog.String("transaction_id", ps.TransactionID()))
		return &apperrors.ChargeSplitMismatchError{Expected: expected, Posted: posted}
	}

	folded.postAll(ps, entryType, reversal)
	return nil
}

// PostChargeDebit resolves the fee or penalty income account refined by a
// single charge and posts a debit sized to the whole adjustment.
func (h *PostingHelper) PostChargeDebit(ctx context.Context, ps *PostingSession, productType domain.ProductType, productID int64, role domain.AccountRole, chargeID int64, amount decimal.Decimal, reversal bool) error {
	if !amount.IsPositive() {
		return nil
	}
	glAccountID, err := h.Resolver.ResolveID(ctx, productType, productID, role, nil, &chargeID)
	if err != nil {
		return err
	}
	ps.Post(domain.Debit, glAccountID, amount, reversal)
	return nil
}
