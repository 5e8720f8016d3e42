package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nycfoodgap/foodgap/internal/iodb"
	"github.com/nycfoodgap/foodgap/internal/iostorage"
	"github.com/nycfoodgap/foodgap/pkg/db"
)

func getInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the bookkeeping tables",
		Long: `Initialize the foodgap database.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Creates or migrates the dataset_metadata table

Dataset tables themselves are created on demand during ingestion, from
each dataset's schema descriptor.

Examples:
  foodgap init
  foodgap init --config custom.yaml`,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	fmt.Printf("Connected to database: %s@%s:%d/%s\n",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port,
		cfg.Database.Database)

	st := iostorage.New(op, cfg)
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Println("✓ Bookkeeping tables ready")
	return nil
}
