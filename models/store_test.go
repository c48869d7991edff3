package models_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"github.com/shopspring/decimal"
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

func businessCtx(businessId uint) context.Context {
	return utils.SetBusinessIdInContext(context.Background(), businessId)
}

func TestInsertAndGet(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	party := models.Party{BusinessId: 1, Name: "U Ba", Type: models.PartyTypeCustomer}
	localID, err := models.Insert(ctx, &party)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if localID == 0 {
		t.Fatal("insert must return the assigned local id")
	}

	got, err := models.Get[models.Party](ctx, localID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "U Ba" {
		t.Fatalf("want name %q, got %q", "U Ba", got.Name)
	}

	if _, err := models.Get[models.Party](ctx, localID+100); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("missing row must return ErrorRecordNotFound, got %v", err)
	}
}

func TestUpdateByLocalID(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	item := models.Item{BusinessId: 1, Name: "Oil 1L", Stock: 5, Price: decimal.NewFromInt(4500)}
	localID, err := models.Insert(ctx, &item)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	err = models.UpdateByLocalID[models.Item](ctx, localID, map[string]interface{}{
		"stock": 8,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := models.Get[models.Item](ctx, localID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 8 {
		t.Fatalf("want stock 8, got %d", got.Stock)
	}
	if got.Name != "Oil 1L" {
		t.Fatal("partial update must leave other fields alone")
	}
}

func TestFindOneByRemoteID(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	staff := models.Staff{
		SyncBase:   models.SyncBase{RemoteID: "doc-abc"},
		BusinessId: 1,
		Name:       "Mya",
		Role:       models.StaffRoleAdmin,
	}
	if _, err := models.Insert(ctx, &staff); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := models.FindOneByRemoteID[models.Staff](ctx, "doc-abc")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Mya" {
		t.Fatalf("want name %q, got %q", "Mya", got.Name)
	}

	if _, err := models.FindOneByRemoteID[models.Staff](ctx, "doc-missing"); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("missing remote id must return ErrorRecordNotFound, got %v", err)
	}
}

func TestOverwriteReplacesWholeRow(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	party := models.Party{BusinessId: 1, Name: "Old Name", Phone: "0999", Type: models.PartyTypeCustomer}
	localID, err := models.Insert(ctx, &party)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	replacement := models.Party{
		SyncBase:   models.SyncBase{LocalID: localID, RemoteID: "doc-1"},
		BusinessId: 1,
		Name:       "New Name",
		Type:       models.PartyTypeSupplier,
	}
	if err := models.Overwrite(ctx, &replacement); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := models.Get[models.Party](ctx, localID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "New Name" || got.Type != models.PartyTypeSupplier {
		t.Fatalf("overwrite must replace fields, got %+v", got)
	}
	if got.Phone != "" {
		t.Fatal("overwrite must clear fields absent from the replacement")
	}
	if got.RemoteID != "doc-1" {
		t.Fatalf("want remote id doc-1, got %q", got.RemoteID)
	}
}

func TestOverwriteKeepsLocalOnlyColumns(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	txn := models.Transaction{
		BusinessId:  1,
		Amount:      decimal.NewFromInt(100),
		Type:        models.FlowDirectionIn,
		Category:    "Sales",
		Date:        time.Now(),
		PaymentMode: "Cash",
		ReceiptBlob: []byte("raw receipt bytes"),
	}
	localID, err := models.Insert(ctx, &txn)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// An incoming row never carries the blob: the column must survive an
	// overwrite so the attachment can still be uploaded later.
	replacement := models.Transaction{
		SyncBase:    models.SyncBase{LocalID: localID, RemoteID: "doc-1"},
		BusinessId:  1,
		Amount:      decimal.NewFromInt(150),
		Type:        models.FlowDirectionIn,
		Category:    "Sales",
		Date:        time.Now(),
		PaymentMode: "Cash",
	}
	if err := models.Overwrite(ctx, &replacement); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := models.Get[models.Transaction](ctx, localID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("synced fields must be replaced, got amount %s", got.Amount)
	}
	if string(got.ReceiptBlob) != "raw receipt bytes" {
		t.Fatal("overwrite must leave the pending receipt bytes untouched")
	}
}

func TestTenantScoping(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	for _, p := range []models.Party{
		{BusinessId: 1, Name: "Shop One", Type: models.PartyTypeCustomer},
		{BusinessId: 1, Name: "Shop Two", Type: models.PartyTypeCustomer},
		{BusinessId: 2, Name: "Other Shop", Type: models.PartyTypeCustomer},
	} {
		row := p
		if _, err := models.Insert(ctx, &row); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	scoped, err := models.GetAll[models.Party](businessCtx(1))
	if err != nil {
		t.Fatalf("scoped get all: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("business 1 must see 2 parties, got %d", len(scoped))
	}

	all, err := models.GetAll[models.Party](utils.SkipTenantScope(businessCtx(1)))
	if err != nil {
		t.Fatalf("bypassed get all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("bypassed read must see all 3 parties, got %d", len(all))
	}
}

func TestCreateTransactionValidatesReferences(t *testing.T) {
	setupDB(t)

	mine := models.Party{BusinessId: 1, Name: "Mine", Type: models.PartyTypeCustomer}
	other := models.Party{BusinessId: 2, Name: "Theirs", Type: models.PartyTypeCustomer}
	if _, err := models.Insert(context.Background(), &mine); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := models.Insert(context.Background(), &other); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ctx := businessCtx(1)
	good := models.NewTransaction{
		Amount:      decimal.NewFromInt(1000),
		Type:        models.FlowDirectionIn,
		Category:    "Sales",
		PaymentMode: "Cash",
		PartyId:     &mine.LocalID,
	}
	if _, err := models.CreateTransaction(ctx, &good); err != nil {
		t.Fatalf("create with own party: %v", err)
	}

	bad := models.NewTransaction{
		Amount:      decimal.NewFromInt(1000),
		Type:        models.FlowDirectionIn,
		Category:    "Sales",
		PaymentMode: "Cash",
		PartyId:     &other.LocalID,
	}
	if _, err := models.CreateTransaction(ctx, &bad); err == nil {
		t.Fatal("a reference into another business must be rejected")
	}
}

func TestGetOrCreateSetting(t *testing.T) {
	setupDB(t)
	ctx := businessCtx(1)

	first, err := models.GetOrCreateSetting(ctx)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := models.GetOrCreateSetting(ctx)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.LocalID != second.LocalID {
		t.Fatal("repeated calls must return the same settings row")
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := models.TouchLastBackupDate(ctx, at); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := models.GetOrCreateSetting(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.LastBackupDate == nil || !got.LastBackupDate.Equal(at) {
		t.Fatalf("want last backup date %v, got %v", at, got.LastBackupDate)
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := models.DefaultCategories(7)
	if len(cats) != 7 {
		t.Fatalf("want 7 default categories, got %d", len(cats))
	}
	for _, c := range cats {
		if c.BusinessId != 7 {
			t.Fatalf("category %q must carry the business id", c.Name)
		}
	}
}
