package domain

import "github.com/shopspring/decimal"

// OfficeAccountKey identifies one office-scoped running-balance stream.
type OfficeAccountKey struct {
	OfficeID    int64
	GLAccountID int64
}

// RunningBalanceRow pairs an entry with its account classification, which the
// balance fold needs to decide whether the entry increases or decreases.
type RunningBalanceRow struct {
	Entry          JournalEntry
	Classification GLAccountType
}

// BalanceUpdate is the computed result for one entry, persisted exactly once.
type BalanceUpdate struct {
	JournalEntryID             int64
	OfficeRunningBalance       decimal.Decimal
	OrganizationRunningBalance decimal.Decimal
}
