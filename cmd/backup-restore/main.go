package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/cashbook/backup"
	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
)

func main() {
	in := flag.String("in", "", "Required: snapshot file to restore from")
	confirm := flag.String("confirm", "", "Type RESTORE to proceed (replaces all local data)")
	flag.Parse()

	if strings.TrimSpace(*in) == "" {
		fmt.Fprintln(os.Stderr, "--in is required")
		os.Exit(1)
	}
	if strings.TrimSpace(*confirm) != "RESTORE" {
		fmt.Fprintln(os.Stderr, "set --confirm=RESTORE to proceed")
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *in, err)
		os.Exit(1)
	}

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	models.MigrateTable()

	if err := backup.Restore(context.Background(), data); err != nil {
		fmt.Fprintf(os.Stderr, "restore failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("restore complete")
}
