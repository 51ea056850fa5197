package services_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/corebank/subledger/internal/core/domain"
	"github.com/corebank/subledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RunningBalanceTestSuite struct {
	suite.Suite

	store   *MockJournalEntryRepository
	service *services.RunningBalanceService
	ctx     context.Context
}

func (s *RunningBalanceTestSuite) SetupTest() {
	s.store = new(MockJournalEntryRepository)
	s.service = services.NewRunningBalanceService(s.store)
	s.ctx = context.Background()
}

func balanceRow(entryID, officeID, glAccountID int64, classification domain.GLAccountType, entryType domain.JournalEntryType, amount int64) domain.RunningBalanceRow {
	return domain.RunningBalanceRow{
		Entry: domain.JournalEntry{
			JournalEntryID: entryID,
			OfficeID:       officeID,
			GLAccountID:    glAccountID,
			CurrencyCode:   "USD",
			EntryDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			Type:           entryType,
			Amount:         decimal.NewFromInt(amount),
		},
		Classification: classification,
	}
}

func updatesByEntryID(calls [][]domain.BalanceUpdate) map[int64]domain.BalanceUpdate {
	out := make(map[int64]domain.BalanceUpdate)
	for _, batch := range calls {
		for _, u := range batch {
			out[u.JournalEntryID] = u
		}
	}
	return out
}

func (s *RunningBalanceTestSuite) TestNothingToDo() {
	s.store.On("FindEarliestUnbalancedEntryDate", mock.Anything, (*int64)(nil)).Return(nil, nil).Once()

	require.NoError(s.T(), s.service.UpdateRunningBalances(s.ctx))
	s.store.AssertNotCalled(s.T(), "UpdateRunningBalances", mock.Anything, mock.Anything)
}

func (s *RunningBalanceTestSuite) TestFoldRespectsClassificationSigns() {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s.store.On("FindEarliestUnbalancedEntryDate", mock.Anything, (*int64)(nil)).Return(&from, nil).Once()
	s.store.On("OfficeBalancesAsOf", mock.Anything, from).Return(map[domain.OfficeAccountKey]decimal.Decimal{}, nil).Once()
	s.store.On("OrganizationBalancesAsOf", mock.Anything, from).Return(map[int64]decimal.Decimal{}, nil).Once()

	rows := []domain.RunningBalanceRow{
		// Asset account: debit +1000, credit -600.
		balanceRow(1, 1, 11, domain.Asset, domain.Debit, 1000),
		balanceRow(3, 1, 11, domain.Asset, domain.Credit, 600),
		// Income account: credit +100.
		balanceRow(2, 1, 12, domain.Income, domain.Credit, 100),
	}
	s.store.On("ListEntriesForBalanceRun", mock.Anything, from).Return(rows, nil).Once()

	var saved [][]domain.BalanceUpdate
	s.store.On("UpdateRunningBalances", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).([]domain.BalanceUpdate))
	}).Return(nil)

	require.NoError(s.T(), s.service.UpdateRunningBalances(s.ctx))

	byID := updatesByEntryID(saved)
	require.Len(s.T(), byID, 3)
	assert.True(s.T(), byID[1].OfficeRunningBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(s.T(), byID[3].OfficeRunningBalance.Equal(decimal.NewFromInt(400)))
	assert.True(s.T(), byID[2].OfficeRunningBalance.Equal(decimal.NewFromInt(100)))
	assert.True(s.T(), byID[3].OrganizationRunningBalance.Equal(decimal.NewFromInt(400)))
}

func (s *RunningBalanceTestSuite) TestFoldSeedsFromPriorBalances() {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s.store.On("FindEarliestUnbalancedEntryDate", mock.Anything, (*int64)(nil)).Return(&from, nil).Once()
	s.store.On("OfficeBalancesAsOf", mock.Anything, from).Return(map[domain.OfficeAccountKey]decimal.Decimal{
		{OfficeID: 1, GLAccountID: 11}: decimal.NewFromInt(500),
		{OfficeID: 2, GLAccountID: 11}: decimal.NewFromInt(200),
	}, nil).Once()
	s.store.On("OrganizationBalancesAsOf", mock.Anything, from).Return(map[int64]decimal.Decimal{
		11: decimal.NewFromInt(700),
	}, nil).Once()

	rows := []domain.RunningBalanceRow{
		balanceRow(10, 1, 11, domain.Asset, domain.Debit, 100),
		balanceRow(11, 2, 11, domain.Asset, domain.Debit, 50),
	}
	s.store.On("ListEntriesForBalanceRun", mock.Anything, from).Return(rows, nil).Once()

	var saved [][]domain.BalanceUpdate
	s.store.On("UpdateRunningBalances", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).([]domain.BalanceUpdate))
	}).Return(nil)

	require.NoError(s.T(), s.service.UpdateRunningBalances(s.ctx))

	byID := updatesByEntryID(saved)
	// Office balances continue from each office's own seed; the organization
	// balance continues from the account-wide seed across both offices.
	assert.True(s.T(), byID[10].OfficeRunningBalance.Equal(decimal.NewFromInt(600)))
	assert.True(s.T(), byID[11].OfficeRunningBalance.Equal(decimal.NewFromInt(250)))
	assert.True(s.T(), byID[10].OrganizationRunningBalance.Equal(decimal.NewFromInt(800)))
	assert.True(s.T(), byID[11].OrganizationRunningBalance.Equal(decimal.NewFromInt(850)))
}

func (s *RunningBalanceTestSuite) TestOfficeScopedRunOnlyMovesCursor() {
	officeID := int64(2)
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s.store.On("FindEarliestUnbalancedEntryDate", mock.Anything, &officeID).Return(&from, nil).Once()
	s.store.On("OfficeBalancesAsOf", mock.Anything, from).Return(map[domain.OfficeAccountKey]decimal.Decimal{}, nil).Once()
	s.store.On("OrganizationBalancesAsOf", mock.Anything, from).Return(map[int64]decimal.Decimal{}, nil).Once()
	// The fold still covers entries of every office from the cursor onwards.
	rows := []domain.RunningBalanceRow{
		balanceRow(20, 1, 11, domain.Asset, domain.Debit, 100),
		balanceRow(21, 2, 11, domain.Asset, domain.Debit, 40),
	}
	s.store.On("ListEntriesForBalanceRun", mock.Anything, from).Return(rows, nil).Once()
	s.store.On("UpdateRunningBalances", mock.Anything, mock.Anything).Return(nil)

	require.NoError(s.T(), s.service.UpdateOfficeRunningBalances(s.ctx, officeID))
	s.store.AssertExpectations(s.T())
}

func (s *RunningBalanceTestSuite) TestLargeRunIsBatched() {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s.store.On("FindEarliestUnbalancedEntryDate", mock.Anything, (*int64)(nil)).Return(&from, nil).Once()
	s.store.On("OfficeBalancesAsOf", mock.Anything, from).Return(map[domain.OfficeAccountKey]decimal.Decimal{}, nil).Once()
	s.store.On("OrganizationBalancesAsOf", mock.Anything, from).Return(map[int64]decimal.Decimal{}, nil).Once()

	rows := make([]domain.RunningBalanceRow, 0, 1500)
	for i := 0; i < 1500; i++ {
		rows = append(rows, balanceRow(int64(i+1), 1, 11, domain.Asset, domain.Debit, 1))
	}
	s.store.On("ListEntriesForBalanceRun", mock.Anything, from).Return(rows, nil).Once()

	var batchSizes []int
	s.store.On("UpdateRunningBalances", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		batchSizes = append(batchSizes, len(args.Get(1).([]domain.BalanceUpdate)))
	}).Return(nil)

	require.NoError(s.T(), s.service.UpdateRunningBalances(s.ctx))
	sort.Sort(sort.Reverse(sort.IntSlice(batchSizes)))
	assert.Equal(s.T(), []int{1000, 500}, batchSizes)
}

func TestRunningBalanceService(t *testing.T) {
	suite.Run(t, new(RunningBalanceTestSuite))
}
