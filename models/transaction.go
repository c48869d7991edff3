package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single cash movement. PartyId, StaffId and ItemId are
// LOCAL identifiers of the referenced rows; they are synced as-is and
// never remapped on pull (see DESIGN.md for the cross-device caveat).
type Transaction struct {
	SyncBase
	BusinessId  uint            `gorm:"index;not null" json:"businessId"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Type        FlowDirection   `gorm:"size:10;not null" json:"type"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Remark      string          `gorm:"size:255" json:"remark,omitempty"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	IsCredit    bool            `gorm:"not null" json:"isCredit"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	PartyId     *uint           `gorm:"index" json:"partyId,omitempty"`
	StaffId     *uint           `gorm:"index" json:"staffId,omitempty"`
	ItemId      *uint           `gorm:"index" json:"itemId,omitempty"`
	PaymentMode string          `gorm:"size:20;not null" json:"paymentMode"`

	// ReceiptImage holds the storage reference once the attachment has
	// been promoted to the blob store. Until then the raw bytes sit in
	// ReceiptBlob, which never leaves the device.
	ReceiptImage string `gorm:"size:255" json:"receiptImage,omitempty"`
	ReceiptBlob  []byte `gorm:"type:blob" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }

// HasPendingReceipt reports whether the attachment still needs promotion
// to the blob store.
func (t Transaction) HasPendingReceipt() bool {
	return len(t.ReceiptBlob) > 0 && t.ReceiptImage == ""
}

type NewTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        FlowDirection   `json:"type"`
	Category    string          `json:"category"`
	Remark      string          `json:"remark"`
	Date        time.Time       `json:"date"`
	IsCredit    bool            `json:"isCredit"`
	DueDate     *time.Time      `json:"dueDate"`
	PartyId     *uint           `json:"partyId"`
	StaffId     *uint           `json:"staffId"`
	ItemId      *uint           `json:"itemId"`
	PaymentMode string          `json:"paymentMode"`
	ReceiptBlob []byte          `json:"-"`
}

// validate input for create. References must point at rows of the same business.
func (input *NewTransaction) validate(ctx context.Context, businessId uint) error {
	if input.Amount.IsZero() {
		return errors.New("amount is required")
	}
	if input.Type != FlowDirectionIn && input.Type != FlowDirectionOut {
		return errors.New("transaction type must be IN or OUT")
	}
	if input.Category == "" {
		return errors.New("category is required")
	}
	if input.PaymentMode == "" {
		return errors.New("payment mode is required")
	}
	if input.PartyId != nil {
		if err := validateBusinessRef[Party](ctx, businessId, *input.PartyId); err != nil {
			return err
		}
	}
	if input.StaffId != nil {
		if err := validateBusinessRef[Staff](ctx, businessId, *input.StaffId); err != nil {
			return err
		}
	}
	if input.ItemId != nil {
		if err := validateBusinessRef[Item](ctx, businessId, *input.ItemId); err != nil {
			return err
		}
	}
	return nil
}

func CreateTransaction(ctx context.Context, input *NewTransaction) (*Transaction, error) {
	businessId, ok := GetBusinessIdOrError(ctx)
	if !ok {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := Transaction{
		BusinessId:  businessId,
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    input.Category,
		Remark:      input.Remark,
		Date:        date,
		IsCredit:    input.IsCredit,
		DueDate:     input.DueDate,
		PartyId:     input.PartyId,
		StaffId:     input.StaffId,
		ItemId:      input.ItemId,
		PaymentMode: input.PaymentMode,
		ReceiptBlob: input.ReceiptBlob,
	}
	if _, err := Insert(ctx, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}
