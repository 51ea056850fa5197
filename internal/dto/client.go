package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientTransactionType is the category of a client-level transaction.
type ClientTransactionType string

const (
	ClientPayCharge   ClientTransactionType = "PAY_CHARGE"
	ClientWaiveCharge ClientTransactionType = "WAIVE_CHARGE"
)

func (t ClientTransactionType) IsChargePayment() bool { return t == ClientPayCharge }
func (t ClientTransactionType) IsWaiveCharge() bool   { return t == ClientWaiveCharge }

// ClientChargePayment carries the income account a paid client charge is
// configured against. Charges with no income account configured are skipped.
type ClientChargePayment struct {
	ChargeID        int64           `json:"chargeId"`
	IncomeAccountID *int64          `json:"incomeAccountId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

// ClientTransactionDTO is the bridge snapshot for one client charge payment.
// Client transactions are flat: there is no product, so the offsetting debit
// comes from the organization's asset fund source financial activity.
type ClientTransactionDTO struct {
	ClientID      int64                 `json:"clientId"`
	OfficeID      int64                 `json:"officeId"`
	CurrencyCode  string                `json:"currencyCode"`
	TransactionID string                `json:"id"`
	Date          time.Time             `json:"date"`
	Type          ClientTransactionType `json:"type"`

	Amount   decimal.Decimal `json:"amount"`
	Reversed bool            `json:"reversed"`

	AccountingEnabled bool                  `json:"accountingEnabled"`
	ChargePayments    []ClientChargePayment `json:"chargesPaid,omitempty"`
}

// ProvisioningLine is one (office, product) row of a provisioning run:
// Amount is reserved by debiting the expense account and crediting the
// liability account.
type ProvisioningLine struct {
	OfficeID           int64           `json:"officeId"`
	CurrencyCode       string          `json:"currencyCode"`
	LiabilityAccountID int64           `json:"liabilityAccountId"`
	ExpenseAccountID   int64           `json:"expenseAccountId"`
	Amount             decimal.Decimal `json:"amount"`
}

// ProvisioningDTO is the snapshot of one provisioning run.
type ProvisioningDTO struct {
	EntryID int64              `json:"provisioningEntryId"`
	Date    time.Time          `json:"date"`
	Lines   []ProvisioningLine `json:"lines"`
}
