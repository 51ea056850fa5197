package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsTransactionType is the portfolio category of a savings transaction.
type SavingsTransactionType string

const (
	SavingsDeposit           SavingsTransactionType = "DEPOSIT"
	SavingsWithdrawal        SavingsTransactionType = "WITHDRAWAL"
	SavingsInterestPosting   SavingsTransactionType = "INTEREST_POSTING"
	SavingsFeeDeduction      SavingsTransactionType = "FEE_DEDUCTION"
	SavingsPenaltyDeduction  SavingsTransactionType = "PENALTY_DEDUCTION"
	SavingsWaiveCharge       SavingsTransactionType = "WAIVE_CHARGE"
	SavingsOverdraftInterest SavingsTransactionType = "OVERDRAFT_INTEREST"
	SavingsWithholdTax       SavingsTransactionType = "WITHHOLD_TAX"
	SavingsEscheat           SavingsTransactionType = "ESCHEAT"
	SavingsDividendPayout    SavingsTransactionType = "DIVIDEND_PAYOUT"
	SavingsWriteOff          SavingsTransactionType = "WRITE_OFF"
	SavingsInitiateTransfer  SavingsTransactionType = "INITIATE_TRANSFER"
	SavingsApproveTransfer   SavingsTransactionType = "APPROVE_TRANSFER"
	SavingsWithdrawTransfer  SavingsTransactionType = "WITHDRAW_TRANSFER"
)

func (t SavingsTransactionType) IsDeposit() bool           { return t == SavingsDeposit }
func (t SavingsTransactionType) IsWithdrawal() bool        { return t == SavingsWithdrawal }
func (t SavingsTransactionType) IsInterestPosting() bool   { return t == SavingsInterestPosting }
func (t SavingsTransactionType) IsFeeDeduction() bool      { return t == SavingsFeeDeduction }
func (t SavingsTransactionType) IsPenaltyDeduction() bool  { return t == SavingsPenaltyDeduction }
func (t SavingsTransactionType) IsWaiveCharge() bool       { return t == SavingsWaiveCharge }
func (t SavingsTransactionType) IsOverdraftInterest() bool { return t == SavingsOverdraftInterest }
func (t SavingsTransactionType) IsWithholdTax() bool       { return t == SavingsWithholdTax }
func (t SavingsTransactionType) IsEscheat() bool           { return t == SavingsEscheat }
func (t SavingsTransactionType) IsDividendPayout() bool    { return t == SavingsDividendPayout }
func (t SavingsTransactionType) IsWriteOff() bool          { return t == SavingsWriteOff }
func (t SavingsTransactionType) IsInitiateTransfer() bool  { return t == SavingsInitiateTransfer }
func (t SavingsTransactionType) IsApproveTransfer() bool   { return t == SavingsApproveTransfer }
func (t SavingsTransactionType) IsWithdrawTransfer() bool  { return t == SavingsWithdrawTransfer }

// TaxPayment is one withholding-tax component of an interest posting,
// credited straight to a configured tax liability account.
type TaxPayment struct {
	CreditAccountID int64           `json:"creditAccountId"`
	Amount          decimal.Decimal `json:"amount"`
}

// SavingsTransaction is the immutable snapshot of one savings transaction
// supplied by the accounting bridge. OverdraftAmount is the portion of the
// amount that touched the overdraft; the remainder moved ordinary savings.
type SavingsTransaction struct {
	TransactionID string                 `json:"id"`
	OfficeID      int64                  `json:"officeId"`
	PaymentTypeID *int64                 `json:"paymentTypeId,omitempty"`
	Date          time.Time              `json:"date"`
	Type          SavingsTransactionType `json:"type"`

	Amount          decimal.Decimal `json:"amount"`
	OverdraftAmount decimal.Decimal `json:"overdraftAmount"`

	Reversed             bool            `json:"reversed"`
	AccountTransfer      bool            `json:"accountTransfer"`
	OverdraftTransaction bool            `json:"isOverdraftTransaction"`
	ChargePayments       []ChargePayment `json:"savingsChargesPaid,omitempty"`
	PenaltyCharge        bool            `json:"isPenaltyCharge"`
	TaxPayments          []TaxPayment    `json:"taxDetails,omitempty"`
}

// NonOverdraftAmount is the part of the amount not covered by the overdraft.
func (t *SavingsTransaction) NonOverdraftAmount() decimal.Decimal {
	return t.Amount.Sub(t.OverdraftAmount)
}

// SavingsDTO is the bridge snapshot for one savings account's newly detected
// transactions.
type SavingsDTO struct {
	SavingsID    int64  `json:"savingsId"`
	ProductID    int64  `json:"savingsProductId"`
	OfficeID     int64  `json:"officeId"`
	CurrencyCode string `json:"currencyCode"`

	CashBasedAccounting    bool `json:"cashBasedAccountingEnabled"`
	AccrualBasedAccounting bool `json:"accrualBasedAccountingEnabled"`

	NewTransactions []SavingsTransaction `json:"newSavingsTransactions"`
}
