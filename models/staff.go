package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Staff struct {
	SyncBase
	BusinessId uint            `gorm:"index;not null" json:"businessId"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Phone      string          `gorm:"size:20" json:"phone"`
	Role       StaffRole       `gorm:"size:20;not null" json:"role"`
	Salary     decimal.Decimal `gorm:"type:decimal(20,8)" json:"salary"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Staff) TableName() string { return "staff" }

type NewStaff struct {
	Name   string          `json:"name"`
	Phone  string          `json:"phone"`
	Role   StaffRole       `json:"role"`
	Salary decimal.Decimal `json:"salary"`
}

func CreateStaff(ctx context.Context, input *NewStaff) (*Staff, error) {
	businessId, ok := GetBusinessIdOrError(ctx)
	if !ok {
		return nil, errors.New("business id is required")
	}
	if input.Name == "" {
		return nil, errors.New("staff name is required")
	}
	staff := Staff{
		BusinessId: businessId,
		Name:       input.Name,
		Phone:      input.Phone,
		Role:       input.Role,
		Salary:     input.Salary,
	}
	if _, err := Insert(ctx, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}
