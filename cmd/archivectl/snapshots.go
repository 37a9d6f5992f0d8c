package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-archive/internal/infrastructure/storage"
)

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect raw source documents kept in object storage",
	}
	cmd.AddCommand(snapshotsListCmd(), snapshotsShowCmd())
	return cmd
}

func snapshotsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the document IDs with a stored snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), func(store *storage.MinIOClient) error {
				ids, err := store.ListDocuments(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
}

func snapshotsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [document-id]",
		Short: "Print the stored snapshot of one source document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(store *storage.MinIOClient) error {
				body, err := store.GetDocument(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
				return err
			})
		},
	}
}

func withStorage(ctx context.Context, fn func(store *storage.MinIOClient) error) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	if !cfg.StorageEnabled() {
		return fmt.Errorf("raw snapshots are disabled: set STORAGE_ENDPOINT")
	}
	store, err := storage.NewMinIOClient(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	return fn(store)
}
