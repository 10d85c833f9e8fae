package main

import (
	"fmt"
	"log"

	"github.com/chrono-run/chrono-api/internal/config"
	"github.com/chrono-run/chrono-api/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg.AutoMigrate = true

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			log.Println("Schema is up to date")
			return nil
		},
	}
}

func newSeedBibsCmd() *cobra.Command {
	var from, count int

	cmd := &cobra.Command{
		Use:   "seed-dossards",
		Short: "Insert a range of available bibs",
		Long: `Insert available bibs numbered from --from, skipping numbers that already exist.

Examples:
  chrono seed-dossards --from 1 --count 500
  chrono seed-dossards --from 1001 --count 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from < 1 {
				return fmt.Errorf("--from must be at least 1")
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			created, err := database.SeedBibs(cmd.Context(), db, from, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d bib(s) in range %d-%d\n", created, from, from+count-1)
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "First bib number")
	cmd.Flags().IntVar(&count, "count", 100, "Number of bibs to create")
	return cmd
}
