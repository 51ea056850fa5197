package services_test

import (
	"context"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountMappingRepository is a mock type for the AccountMappingRepository interface
type MockAccountMappingRepository struct {
	mock.Mock
}

func (m *MockAccountMappingRepository) FindCoreMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole) (*domain.ProductToGLAccountMapping, error) {
	args := m.Called(ctx, productType, productID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductToGLAccountMapping), args.Error(1)
}

func (m *MockAccountMappingRepository) FindPaymentTypeMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, paymentTypeID int64) (*domain.ProductToGLAccountMapping, error) {
	args := m.Called(ctx, productType, productID, role, paymentTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductToGLAccountMapping), args.Error(1)
}

func (m *MockAccountMappingRepository) FindChargeMapping(ctx context.Context, productType domain.ProductType, productID int64, role domain.AccountRole, chargeID int64) (*domain.ProductToGLAccountMapping, error) {
	args := m.Called(ctx, productType, productID, role, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductToGLAccountMapping), args.Error(1)
}

func (m *MockAccountMappingRepository) FindFinancialActivityAccount(ctx context.Context, activity domain.AccountRole) (*domain.FinancialActivityAccount, error) {
	args := m.Called(ctx, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialActivityAccount), args.Error(1)
}

// MockGLAccountRepository is a mock type for the GLAccountRepository interface
type MockGLAccountRepository struct {
	mock.Mock
}

func (m *MockGLAccountRepository) FindGLAccountByID(ctx context.Context, glAccountID int64) (*domain.GLAccount, error) {
	args := m.Called(ctx, glAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

// MockGLClosureRepository is a mock type for the GLClosureRepository interface
type MockGLClosureRepository struct {
	mock.Mock
}

func (m *MockGLClosureRepository) FindLatestByOffice(ctx context.Context, officeID int64) (*domain.GLClosure, error) {
	args := m.Called(ctx, officeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLClosure), args.Error(1)
}

// MockOfficeRepository is a mock type for the OfficeRepository interface
type MockOfficeRepository struct {
	mock.Mock
}

func (m *MockOfficeRepository) FindOfficeByID(ctx context.Context, officeID int64) (*domain.Office, error) {
	args := m.Called(ctx, officeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Office), args.Error(1)
}

// MockJournalEntryRepository is a mock type for the JournalEntryRepositoryFacade interface
type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) FindUnreversedByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindUnreversedByEntity(ctx context.Context, kind domain.EntityKind, entityID int64) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, kind, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) SaveAll(ctx context.Context, entries []domain.JournalEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) SaveReversals(ctx context.Context, originals []domain.JournalEntry, reversals []domain.JournalEntry) error {
	args := m.Called(ctx, originals, reversals)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) FindEarliestUnbalancedEntryDate(ctx context.Context, officeID *int64) (*time.Time, error) {
	args := m.Called(ctx, officeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockJournalEntryRepository) ListEntriesForBalanceRun(ctx context.Context, from time.Time) ([]domain.RunningBalanceRow, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunningBalanceRow), args.Error(1)
}

func (m *MockJournalEntryRepository) OfficeBalancesAsOf(ctx context.Context, before time.Time) (map[domain.OfficeAccountKey]decimal.Decimal, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.OfficeAccountKey]decimal.Decimal), args.Error(1)
}

func (m *MockJournalEntryRepository) OrganizationBalancesAsOf(ctx context.Context, before time.Time) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockJournalEntryRepository) UpdateRunningBalances(ctx context.Context, updates []domain.BalanceUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}
