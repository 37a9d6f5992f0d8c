package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-archive/internal/infrastructure/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateDownCmd(), migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(db *gorm.DB, lg *zap.Logger) error {
				n, err := database.Migrate(db, lg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
				return nil
			})
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withDB(cmd.Context(), func(db *gorm.DB, lg *zap.Logger) error {
				n, err := database.Rollback(db, lg, steps)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")
	return cmd
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(db *gorm.DB, _ *zap.Logger) error {
				records, err := database.AppliedMigrations(db)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tAPPLIED AT")
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\n", r.Id, r.AppliedAt.UTC().Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	}
}

func withDB(ctx context.Context, fn func(db *gorm.DB, lg *zap.Logger) error) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.NewPostgresDB(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() { _ = database.CloseDB(db) }()

	return fn(db, lg)
}
