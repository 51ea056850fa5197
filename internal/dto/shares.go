package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharesTransactionType is the portfolio category of a share-account transaction.
type SharesTransactionType string

const (
	SharesPurchase      SharesTransactionType = "PURCHASE"
	SharesRedeem        SharesTransactionType = "REDEEM"
	SharesChargePayment SharesTransactionType = "CHARGE_PAYMENT"
)

// SharesTransactionStatus is the lifecycle sub-state a share purchase moves through.
type SharesTransactionStatus string

const (
	SharesApplied  SharesTransactionStatus = "APPLIED"
	SharesApproved SharesTransactionStatus = "APPROVED"
	SharesRejected SharesTransactionStatus = "REJECTED"
)

func (t SharesTransactionType) IsPurchase() bool      { return t == SharesPurchase }
func (t SharesTransactionType) IsRedeem() bool        { return t == SharesRedeem }
func (t SharesTransactionType) IsChargePayment() bool { return t == SharesChargePayment }

// SharesTransaction is the immutable snapshot of one share-account
// transaction supplied by the accounting bridge. Amount is gross of charges;
// ChargeAmount is the slice of it owed to charges.
type SharesTransaction struct {
	TransactionID string                  `json:"id"`
	OfficeID      int64                   `json:"officeId"`
	PaymentTypeID *int64                  `json:"paymentTypeId,omitempty"`
	Date          time.Time               `json:"date"`
	Type          SharesTransactionType   `json:"type"`
	Status        SharesTransactionStatus `json:"status"`

	Amount       decimal.Decimal `json:"amount"`
	ChargeAmount decimal.Decimal `json:"chargeAmount"`

	Reversed       bool            `json:"reversed"`
	ChargePayments []ChargePayment `json:"chargesPaid,omitempty"`
}

// SharesDTO is the bridge snapshot for one share account's newly detected
// transactions.
type SharesDTO struct {
	ShareAccountID int64  `json:"shareAccountId"`
	ProductID      int64  `json:"shareProductId"`
	OfficeID       int64  `json:"officeId"`
	CurrencyCode   string `json:"currencyCode"`

	CashBasedAccounting bool `json:"cashBasedAccountingEnabled"`

	NewTransactions []SharesTransaction `json:"newShareTransactions"`
}
