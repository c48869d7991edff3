package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stocked product with a selling price and a cost price.
type Item struct {
	SyncBase
	BusinessId uint            `gorm:"index;not null" json:"businessId"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Stock      int             `gorm:"not null" json:"stock"`
	Price      decimal.Decimal `gorm:"type:decimal(20,8)" json:"price"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(20,8)" json:"costPrice"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Item) TableName() string { return "items" }

type NewItem struct {
	Name      string          `json:"name"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"costPrice"`
}

func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {
	businessId, ok := GetBusinessIdOrError(ctx)
	if !ok {
		return nil, errors.New("business id is required")
	}
	if input.Name == "" {
		return nil, errors.New("item name is required")
	}
	item := Item{
		BusinessId: businessId,
		Name:       input.Name,
		Stock:      input.Stock,
		Price:      input.Price,
		CostPrice:  input.CostPrice,
	}
	if _, err := Insert(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
