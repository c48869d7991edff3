package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/tenant"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"github.com/shopspring/decimal"
)

// Seeds a demo business with a handful of parties, items and a week of
// transactions. Intended for development databases only.
func main() {
	name := flag.String("name", "Demo Shop", "Business name")
	currency := flag.String("currency", "NGN", "Business currency")
	statePath := flag.String("state", "", "Tenant state file (defaults to none, selection not persisted)")
	flag.Parse()

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	models.MigrateTable()

	path := strings.TrimSpace(*statePath)
	if path == "" {
		path = os.DevNull
	}
	tc := tenant.New(path)

	ctx := context.Background()
	business, err := tc.Create(ctx, *name, *currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create business: %v\n", err)
		os.Exit(1)
	}
	ctx = utils.SetBusinessIdInContext(ctx, business.LocalID)

	party, err := models.CreateParty(ctx, &models.NewParty{Name: "Walk-in Customer", Type: models.PartyTypeCustomer})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create party: %v\n", err)
		os.Exit(1)
	}
	supplier, err := models.CreateParty(ctx, &models.NewParty{Name: "Main Supplier", Phone: "0912000000", Type: models.PartyTypeSupplier})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create supplier: %v\n", err)
		os.Exit(1)
	}
	item, err := models.CreateItem(ctx, &models.NewItem{
		Name:      "Rice 25kg",
		Stock:     20,
		Price:     decimal.NewFromInt(14500),
		CostPrice: decimal.NewFromInt(12000),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create item: %v\n", err)
		os.Exit(1)
	}
	if _, err := models.CreateStaff(ctx, &models.NewStaff{
		Name:   "Shop Assistant",
		Role:   models.StaffRoleOperator,
		Salary: decimal.NewFromInt(60000),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "create staff: %v\n", err)
		os.Exit(1)
	}

	seeded := 0
	for day := 0; day < 7; day++ {
		date := time.Now().AddDate(0, 0, -day)
		sale := models.NewTransaction{
			Amount:      decimal.NewFromInt(int64(9000 + day*500)),
			Type:        models.FlowDirectionIn,
			Category:    "Sales",
			Date:        date,
			PaymentMode: "Cash",
			PartyId:     &party.LocalID,
			ItemId:      &item.LocalID,
		}
		if _, err := models.CreateTransaction(ctx, &sale); err != nil {
			fmt.Fprintf(os.Stderr, "create sale: %v\n", err)
			os.Exit(1)
		}
		seeded++
	}
	purchase := models.NewTransaction{
		Amount:      decimal.NewFromInt(240000),
		Type:        models.FlowDirectionOut,
		Category:    "Other",
		Remark:      "Weekly stock purchase",
		Date:        time.Now().AddDate(0, 0, -3),
		IsCredit:    true,
		PaymentMode: "Credit",
		PartyId:     &supplier.LocalID,
	}
	if _, err := models.CreateTransaction(ctx, &purchase); err != nil {
		fmt.Fprintf(os.Stderr, "create purchase: %v\n", err)
		os.Exit(1)
	}
	seeded++

	fmt.Printf("seeded business %q (local id %d) with %d transactions\n", business.Name, business.LocalID, seeded)
}
