package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReverseJournalEntryRequest is the body of a reversal command. The comment
// is optional; a per-entry default is generated when it is empty.
type ReverseJournalEntryRequest struct {
	Comments string `json:"comments" binding:"omitempty,max=500"`
}

// ReverseProvisioningRequest reverses a provisioning run as of a date.
type ReverseProvisioningRequest struct {
	ReversalDate string `json:"reversalDate" binding:"required,datetime=2006-01-02"`
}

// ReverseShareTransactionsRequest reverses a batch of share transactions.
type ReverseShareTransactionsRequest struct {
	TransactionIDs []int64 `json:"transactionIds" binding:"required,min=1,dive,gt=0"`
	ReversalDate   string  `json:"reversalDate" binding:"required,datetime=2006-01-02"`
}

// ProvisioningLineRequest is one (office, product) row of a provisioning run.
type ProvisioningLineRequest struct {
	OfficeID           int64  `json:"officeId" binding:"required,gt=0"`
	CurrencyCode       string `json:"currencyCode" binding:"required,len=3"`
	LiabilityAccountID int64  `json:"liabilityAccountId" binding:"required,gt=0"`
	ExpenseAccountID   int64  `json:"expenseAccountId" binding:"required,gt=0"`
	Amount             string `json:"amount" binding:"required"`
}

// CreateProvisioningRequest posts one provisioning run.
type CreateProvisioningRequest struct {
	EntryID int64                     `json:"provisioningEntryId" binding:"required,gt=0"`
	Date    string                    `json:"date" binding:"required,datetime=2006-01-02"`
	Lines   []ProvisioningLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToProvisioningDTO converts the validated request into the typed snapshot
// the posting service consumes.
func (r *CreateProvisioningRequest) ToProvisioningDTO() (*ProvisioningDTO, error) {
	date, err := time.Parse(bridgeDateLayout, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing provisioning date: %w", err)
	}
	out := &ProvisioningDTO{EntryID: r.EntryID, Date: date}
	for _, line := range r.Lines {
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			return nil, fmt.Errorf("parsing provisioning amount %q: %w", line.Amount, err)
		}
		out.Lines = append(out.Lines, ProvisioningLine{
			OfficeID:           line.OfficeID,
			CurrencyCode:       line.CurrencyCode,
			LiabilityAccountID: line.LiabilityAccountID,
			ExpenseAccountID:   line.ExpenseAccountID,
			Amount:             amount,
		})
	}
	return out, nil
}
