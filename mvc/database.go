package mvc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"myblog/app/config"
)

var errInMemory = errors.New("database.in_memory is set: there is nothing on disk to manage")

// dbExists reports whether path holds a database directory with content.
func dbExists(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", path, err)
	}
	return len(entries) > 0, nil
}

func diskConfig(cfg *config.Config) error {
	if cfg.Database.InMemory {
		return errInMemory
	}
	return nil
}

func initCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := diskConfig(cfg); err != nil {
				return err
			}

			exists, err := dbExists(cfg.Database.Path)
			if err != nil {
				return err
			}
			if exists {
				fmt.Fprintf(cmd.OutOrStdout(), "Database already exists at %s. Run clean first to reinitialize.\n", cfg.Database.Path)
				return nil
			}

			if err := os.MkdirAll(cfg.Database.Path, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
			store, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", cfg.Database.Path)
			return nil
		},
	}
}

func cleanCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database and everything in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := diskConfig(cfg); err != nil {
				return err
			}

			if _, err := os.Stat(cfg.Database.Path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is already clean (does not exist)")
				return nil
			}

			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete the database? This cannot be undone.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
				return nil
			}

			if err := os.RemoveAll(cfg.Database.Path); err != nil {
				return fmt.Errorf("clean database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database cleaned")
			return nil
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return c
}

func backupCmd(opts *rootOptions) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "backup",
		Short: "Write a full snapshot of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := diskConfig(cfg); err != nil {
				return err
			}

			exists, err := dbExists(cfg.Database.Path)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("no database at %s to back up", cfg.Database.Path)
			}

			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			store, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			path := filepath.Join(out, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			if err := store.Backup(f); err != nil {
				return err
			}
			if err := f.Sync(); err != nil {
				return fmt.Errorf("sync backup file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up to %s\n", path)
			return nil
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "backups", "Directory to write the backup into")
	return c
}

func restoreCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := diskConfig(cfg); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()

			exists, err := dbExists(cfg.Database.Path)
			if err != nil {
				return err
			}
			if exists && !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Existing database found. Replace it?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
				return nil
			}

			store, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DropAll(); err != nil {
				return fmt.Errorf("clear database: %w", err)
			}
			if err := store.Restore(f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s\n", args[0])
			return nil
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing database without asking")
	return c
}
