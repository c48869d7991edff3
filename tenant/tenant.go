package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"gorm.io/gorm"
)

// Context tracks which business is active. The selection lives in a small
// state file outside the database so it survives restarts and is never
// touched by sync or restore.
type Context struct {
	mu        sync.Mutex
	statePath string
	currentID uint
}

type persistedState struct {
	CurrentBusinessId uint `json:"currentBusinessId"`
}

func New(statePath string) *Context {
	c := &Context{statePath: statePath}
	c.load()
	return c
}

func (c *Context) load() {
	data, err := os.ReadFile(c.statePath)
	if err != nil {
		return
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}
	c.currentID = state.CurrentBusinessId
}

func (c *Context) persist() {
	data, err := json.Marshal(persistedState{CurrentBusinessId: c.currentID})
	if err != nil {
		return
	}
	if dir := filepath.Dir(c.statePath); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	if err := os.WriteFile(c.statePath, data, 0o644); err != nil {
		config.LogError(config.GetLogger(), "tenant", "persist", "write state file", c.statePath, err)
	}
}

// Current resolves the active business. When the persisted selection no
// longer exists it falls back to the first business, re-persisting the
// choice, so the app always has a tenant once one exists at all.
func (c *Context) Current(ctx context.Context) (*models.Business, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = utils.SkipTenantScope(ctx)
	if c.currentID != 0 {
		business, err := models.Get[models.Business](ctx, c.currentID)
		if err == nil {
			return business, nil
		}
		if !errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
	}

	var first models.Business
	err := config.GetDB().WithContext(ctx).Order("local_id").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.currentID != first.LocalID {
		c.currentID = first.LocalID
		c.persist()
	}
	return &first, nil
}

// Switch makes another business current. The target must exist.
func (c *Context) Switch(ctx context.Context, businessId uint) error {
	ctx = utils.SkipTenantScope(ctx)
	if _, err := models.Get[models.Business](ctx, businessId); err != nil {
		return err
	}

	c.mu.Lock()
	c.currentID = businessId
	c.persist()
	c.mu.Unlock()
	return nil
}

// Create adds a business and seeds its default categories in one
// transaction. A business with no categories breaks the entry screens,
// so both succeed or neither remains.
func (c *Context) Create(ctx context.Context, name string, currency string) (*models.Business, error) {
	if name == "" {
		return nil, errors.New("business name is required")
	}
	if currency == "" {
		currency = "NGN"
	}

	business := models.Business{Name: name, Currency: currency}
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		categories := models.DefaultCategories(business.LocalID)
		return tx.Create(&categories).Error
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.currentID == 0 {
		c.currentID = business.LocalID
		c.persist()
	}
	c.mu.Unlock()
	return &business, nil
}

// WithCurrent returns a context scoped to the active business for the
// UI-path queries the tenant guard filters.
func (c *Context) WithCurrent(ctx context.Context) (context.Context, error) {
	business, err := c.Current(ctx)
	if err != nil {
		return ctx, err
	}
	return utils.SetBusinessIdInContext(ctx, business.LocalID), nil
}
