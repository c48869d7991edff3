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
	out := flag.String("out", "", "Output file (defaults to stdout)")
	flag.Parse()

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	models.MigrateTable()

	data, err := backup.Export(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	if strings.TrimSpace(*out) == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("exported %d bytes to %s\n", len(data), *out)
}
