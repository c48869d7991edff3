package models

import (
	"context"
	"errors"
	"time"
)

// Party is a customer or supplier the business trades with.
type Party struct {
	SyncBase
	BusinessId uint      `gorm:"index;not null" json:"businessId"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Type       PartyType `gorm:"size:20;not null" json:"type"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Party) TableName() string { return "parties" }

type NewParty struct {
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Type  PartyType `json:"type"`
}

func CreateParty(ctx context.Context, input *NewParty) (*Party, error) {
	businessId, ok := GetBusinessIdOrError(ctx)
	if !ok {
		return nil, errors.New("business id is required")
	}
	if input.Name == "" {
		return nil, errors.New("party name is required")
	}
	party := Party{
		BusinessId: businessId,
		Name:       input.Name,
		Phone:      input.Phone,
		Type:       input.Type,
	}
	if _, err := Insert(ctx, &party); err != nil {
		return nil, err
	}
	return &party, nil
}
