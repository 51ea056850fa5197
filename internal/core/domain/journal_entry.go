package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryType indicates whether an entry is a Debit or a Credit.
type JournalEntryType string

const (
	Debit  JournalEntryType = "DEBIT"
	Credit JournalEntryType = "CREDIT"
)

// Opposite returns the contra entry type.
func (t JournalEntryType) Opposite() JournalEntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// EntityKind identifies the portfolio object a journal entry originates from.
type EntityKind string

const (
	EntityLoan         EntityKind = "LOAN"
	EntitySavings      EntityKind = "SAVING"
	EntityClient       EntityKind = "CLIENT"
	EntityShares       EntityKind = "SHARES"
	EntityProvisioning EntityKind = "PROVISIONING"
)

// TransactionIDPrefix is the code prepended to the numeric source-transaction
// id to form the sub-transaction id stored on each entry.
func (k EntityKind) TransactionIDPrefix() string {
	switch k {
	case EntityLoan:
		return "L"
	case EntitySavings:
		return "S"
	case EntityClient:
		return "C"
	case EntityShares:
		return "SH"
	case EntityProvisioning:
		return "P"
	}
	return ""
}

// EntityRef is a polymorphic back-reference to the originating portfolio
// object. At most one EntityRef is attached to an entry.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   int64      `json:"id"`
}

// JournalEntry is one side of a balanced posting. Entries are immutable after
// creation except for the reversal fields and the running balances, which are
// written exactly once by the running-balance updater.
type JournalEntry struct {
	JournalEntryID int64            `json:"journalEntryID"`
	OfficeID       int64            `json:"officeID"`
	GLAccountID    int64            `json:"glAccountID"`
	CurrencyCode   string           `json:"currencyCode"`
	TransactionID  string           `json:"transactionID"` // business transaction id grouping the balanced set
	ManualEntry    bool             `json:"manualEntry"`
	EntryDate      time.Time        `json:"entryDate"`
	SubmittedOn    time.Time        `json:"submittedOn"`
	Type           JournalEntryType `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	Entity         *EntityRef       `json:"entity,omitempty"`

	// Sub-transaction back-references; set when the source transaction id is numeric.
	LoanTransactionID    *int64 `json:"loanTransactionID,omitempty"`
	SavingsTransactionID *int64 `json:"savingsTransactionID,omitempty"`
	ClientTransactionID  *int64 `json:"clientTransactionID,omitempty"`
	ShareTransactionID   *int64 `json:"shareTransactionID,omitempty"`

	Reversed        bool   `json:"reversed"`
	ReversalEntryID *int64 `json:"reversalEntryID,omitempty"`

	OfficeRunningBalance       *decimal.Decimal `json:"officeRunningBalance,omitempty"`
	OrganizationRunningBalance *decimal.Decimal `json:"organizationRunningBalance,omitempty"`
	RunningBalanceComputed     bool             `json:"runningBalanceComputed"`

	ReferenceNumber string `json:"referenceNumber,omitempty"`
	Comments        string `json:"comments,omitempty"`
}

// IsDebit reports whether this is the debit side of a posting.
func (e *JournalEntry) IsDebit() bool {
	return e.Type == Debit
}
