package models

import (
	"context"
	"errors"
	"time"
)

type Category struct {
	SyncBase
	BusinessId uint          `gorm:"index;not null" json:"businessId"`
	Name       string        `gorm:"size:50;not null" json:"name"`
	Type       FlowDirection `gorm:"size:10;not null" json:"type"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"-"`
}

func (Category) TableName() string { return "categories" }

// DefaultCategories are seeded together with every new business. A
// business with no categories breaks the entry screens downstream.
func DefaultCategories(businessId uint) []Category {
	return []Category{
		{BusinessId: businessId, Name: "Sales", Type: FlowDirectionIn},
		{BusinessId: businessId, Name: "Food", Type: FlowDirectionOut},
		{BusinessId: businessId, Name: "Transport", Type: FlowDirectionOut},
		{BusinessId: businessId, Name: "Rent", Type: FlowDirectionOut},
		{BusinessId: businessId, Name: "Salary", Type: FlowDirectionOut},
		{BusinessId: businessId, Name: "Utilities", Type: FlowDirectionOut},
		{BusinessId: businessId, Name: "Other", Type: FlowDirectionBoth},
	}
}

type NewCategory struct {
	Name string        `json:"name"`
	Type FlowDirection `json:"type"`
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	businessId, ok := GetBusinessIdOrError(ctx)
	if !ok {
		return nil, errors.New("business id is required")
	}
	if input.Name == "" {
		return nil, errors.New("category name is required")
	}
	category := Category{
		BusinessId: businessId,
		Name:       input.Name,
		Type:       input.Type,
	}
	if _, err := Insert(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}
