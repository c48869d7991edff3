package tenant_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/tenant"
	"bitbucket.org/mmdatafocus/cashbook/utils"
)

func setupDB(t *testing.T) {
	t.Helper()
	db, err := config.OpenMemoryDatabase()
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	config.SetDB(db)
	models.MigrateTable()
}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tenant.json")
}

func TestCreateSeedsDefaultCategories(t *testing.T) {
	setupDB(t)
	tc := tenant.New(statePath(t))
	ctx := context.Background()

	business, err := tc.Create(ctx, "Corner Shop", "NGN")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if business.LocalID == 0 {
		t.Fatal("create must return the stored business")
	}

	categories, err := models.GetAll[models.Category](utils.SetBusinessIdInContext(ctx, business.LocalID))
	if err != nil {
		t.Fatalf("get categories: %v", err)
	}
	if len(categories) != 7 {
		t.Fatalf("a new business must carry 7 default categories, got %d", len(categories))
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	setupDB(t)
	tc := tenant.New(statePath(t))

	if _, err := tc.Create(context.Background(), "", "NGN"); err == nil {
		t.Fatal("empty name must be rejected")
	}
	businesses, err := models.GetAll[models.Business](context.Background())
	if err != nil {
		t.Fatalf("get businesses: %v", err)
	}
	if len(businesses) != 0 {
		t.Fatal("a rejected create must leave no rows behind")
	}
}

func TestFirstCreateBecomesCurrent(t *testing.T) {
	setupDB(t)
	tc := tenant.New(statePath(t))
	ctx := context.Background()

	first, err := tc.Create(ctx, "First Shop", "NGN")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := tc.Create(ctx, "Second Shop", "NGN"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	current, err := tc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.LocalID != first.LocalID {
		t.Fatalf("first created business must stay current, got %q", current.Name)
	}
}

func TestSwitchPersistsAcrossRestart(t *testing.T) {
	setupDB(t)
	path := statePath(t)
	tc := tenant.New(path)
	ctx := context.Background()

	if _, err := tc.Create(ctx, "First Shop", "NGN"); err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := tc.Create(ctx, "Second Shop", "NGN")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if err := tc.Switch(ctx, second.LocalID); err != nil {
		t.Fatalf("switch: %v", err)
	}

	// Same state file, fresh instance: the selection must survive.
	reloaded := tenant.New(path)
	current, err := reloaded.Current(ctx)
	if err != nil {
		t.Fatalf("current after reload: %v", err)
	}
	if current.LocalID != second.LocalID {
		t.Fatalf("want business %d current after reload, got %d", second.LocalID, current.LocalID)
	}
}

func TestSwitchRejectsMissingBusiness(t *testing.T) {
	setupDB(t)
	tc := tenant.New(statePath(t))
	ctx := context.Background()

	if _, err := tc.Create(ctx, "Only Shop", "NGN"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tc.Switch(ctx, 99); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("switch to a missing business must fail, got %v", err)
	}
}

func TestCurrentFallsBackToFirstBusiness(t *testing.T) {
	setupDB(t)
	path := statePath(t)
	ctx := context.Background()

	// Stale selection pointing at a business that no longer exists.
	if err := os.WriteFile(path, []byte(`{"currentBusinessId":42}`), 0o644); err != nil {
		t.Fatalf("write state file: %v", err)
	}

	business := models.Business{Name: "Only Shop", Currency: "NGN"}
	if _, err := models.Insert(ctx, &business); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tc := tenant.New(path)
	current, err := tc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.LocalID != business.LocalID {
		t.Fatalf("must fall back to the first existing business, got %d", current.LocalID)
	}

	// The corrected selection is re-persisted.
	reloaded := tenant.New(path)
	again, err := reloaded.Current(ctx)
	if err != nil {
		t.Fatalf("current after reload: %v", err)
	}
	if again.LocalID != business.LocalID {
		t.Fatalf("corrected selection must persist, got %d", again.LocalID)
	}
}

func TestWithCurrentScopesContext(t *testing.T) {
	setupDB(t)
	tc := tenant.New(statePath(t))
	ctx := context.Background()

	business, err := tc.Create(ctx, "Scoped Shop", "NGN")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	scoped, err := tc.WithCurrent(ctx)
	if err != nil {
		t.Fatalf("with current: %v", err)
	}
	got, ok := utils.GetBusinessIdFromContext(scoped)
	if !ok || got != business.LocalID {
		t.Fatalf("want business id %d in context, got %d (%v)", business.LocalID, got, ok)
	}
}
