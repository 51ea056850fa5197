package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// fakeLedger is an in-memory stand-in for the mapping, account and closure
// repositories. The engines resolve dozens of roles per transaction, so a
// configurable fake keeps the tests about posting behaviour instead of mock
// choreography; the mock-based tests cover the repository call contracts.
type fakeLedger struct {
	core          map[mappingKey]int64
	byPaymentType map[refinedKey]int64
	byCharge      map[refinedKey]int64
	activities    map[domain.AccountRole]int64
	accounts      map[int64]*domain.GLAccount
	closures      map[int64]*domain.GLClosure
	offices       map[int64]*domain.Office
}

type mappingKey struct {
	productType domain.ProductType
	productID   int64
	role        domain.AccountRole
}

type refinedKey struct {
	mappingKey
	refinementID int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		core:          make(map[mappingKey]int64),
		byPaymentType: make(map[refinedKey]int64),
		byCharge:      make(map[refinedKey]int64),
		activities:    make(map[domain.AccountRole]int64),
		accounts:      make(map[int64]*domain.GLAccount),
		closures:      make(map[int64]*domain.GLClosure),
		offices:       make(map[int64]*domain.Office),
	}
}

func (f *fakeLedger) addAccount(glAccountID int64, classification domain.GLAccountType) {
	f.accounts[glAccountID] = &domain.GLAccount{
		GLAccountID:          glAccountID,
		Name:                 fmt.Sprintf("account %d", glAccountID),
		GLCode:               fmt.Sprintf("GL-%d", glAccountID),
		Classification:       classification,
		ManualEntriesAllowed: true,
	}
}

func (f *fakeLedger) mapRole(productType domain.ProductType, productID int64, role domain.AccountRole, glAccountID int64, classification domain.GLAccountType) {
	f.core[mappingKey{productType, productID, role}] = glAccountID
	f.addAccount(glAccountID, classification)
}

func (f *fakeLedger) mapPaymentType(productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID, glAccountID int64, classification domain.GLAccountType) {
	f.byPaymentType[refinedKey{mappingKey{productType, productID, role}, paymentTypeID}] = glAccountID
	f.addAccount(glAccountID, classification)
}

func (f *fakeLedger) mapCharge(productType domain.ProductType, productID int64, role domain.AccountRole, chargeID, glAccountID int64, classification domain.GLAccountType) {
	f.byCharge[refinedKey{mappingKey{productType, productID, role}, chargeID}] = glAccountID
	f.addAccount(glAccountID, classification)
}

func (f *fakeLedger) mapActivity(activity domain.AccountRole, glAccountID int64, classification domain.GLAccountType) {
	f.activities[activity] = glAccountID
	f.addAccount(glAccountID, classification)
}

func (f *fakeLedger) FindCoreMapping(_ context.Context, productType domain.ProductType, productID int64, role domain.AccountRole) (*domain.ProductToGLAccountMapping, error) {
	if id, ok := f.core[mappingKey{productType, productID, role}]; ok {
		return &domain.ProductToGLAccountMapping{ProductType: productType, ProductID: productID, Role: role, GLAccountID: id}, nil
	}
	return nil, nil
}

func (f *fakeLedger) FindPaymentTypeMapping(_ context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID int64) (*domain.ProductToGLAccountMapping, error) {
	if id, ok := f.byPaymentType[refinedKey{mappingKey{productType, productID, role}, paymentTypeID}]; ok {
		return &domain.ProductToGLAccountMapping{ProductType: productType, ProductID: productID, Role: role, PaymentTypeID: &paymentTypeID, GLAccountID: id}, nil
	}
	return nil, nil
}

func (f *fakeLedger) FindChargeMapping(_ context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, chargeID int64) (*domain.ProductToGLAccountMapping, error) {
	if id, ok := f.byCharge[refinedKey{mappingKey{productType, productID, role}, chargeID}]; ok {
		return &domain.ProductToGLAccountMapping{ProductType: productType, ProductID: productID, Role: role, ChargeID: &chargeID, GLAccountID: id}, nil
	}
	return nil, nil
}

func (f *fakeLedger) FindFinancialActivityAccount(_ context.Context, activity domain.AccountRole) (*domain.FinancialActivityAccount, error) {
	if id, ok := f.activities[activity]; ok {
		return &domain.FinancialActivityAccount{Activity: activity, GLAccountID: id}, nil
	}
	return nil, nil
}

func (f *fakeLedger) FindGLAccountByID(_ context.Context, glAccountID int64) (*domain.GLAccount, error) {
	if account, ok := f.accounts[glAccountID]; ok {
		return account, nil
	}
	return nil, fmt.Errorf("no account %d configured in fixture", glAccountID)
}

func (f *fakeLedger) FindLatestByOffice(_ context.Context, officeID int64) (*domain.GLClosure, error) {
	return f.closures[officeID], nil
}

func (f *fakeLedger) FindOfficeByID(_ context.Context, officeID int64) (*domain.Office, error) {
	if office, ok := f.offices[officeID]; ok {
		return office, nil
	}
	return &domain.Office{OfficeID: officeID, Name: "head office"}, nil
}

// newTestHelper builds a posting helper over a fresh fake ledger.
func newTestHelper() (*fakeLedger, *services.PostingHelper) {
	ledger := newFakeLedger()
	resolver := services.NewAccountResolver(ledger, ledger)
	helper := services.NewPostingHelper(resolver, ledger, ledger)
	return ledger, helper
}

// entriesFor filters a session's entries by type and account.
func entriesFor(entries []domain.JournalEntry, entryType domain.JournalEntryType, glAccountID int64) []domain.JournalEntry {
	var out []domain.JournalEntry
	for _, e := range entries {
		if e.Type == entryType && e.GLAccountID == glAccountID {
			out = append(out, e)
		}
	}
	return out
}

// assertSingleEntry asserts exactly one entry of the given type exists
// against the account, carrying the given amount.
func assertSingleEntry(t *testing.T, entries []domain.JournalEntry, entryType domain.JournalEntryType, glAccountID int64, amount decimal.Decimal) {
	t.Helper()
	matched := entriesFor(entries, entryType, glAccountID)
	if assert.Len(t, matched, 1, "expected exactly one %s against account %d", entryType, glAccountID) {
		assert.True(t, matched[0].Amount.Equal(amount),
			"expected %s of %s against account %d, got %s", entryType, amount, glAccountID, matched[0].Amount)
	}
}

// assertBalanced asserts the double-entry invariant over an entry set.
func assertBalanced(t *testing.T, entries []domain.JournalEntry) {
	t.Helper()
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Type == domain.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	assert.True(t, debits.Equal(credits), "debits %s != credits %s", debits, credits)
}
