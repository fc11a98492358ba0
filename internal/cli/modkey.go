package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"claimdesk/internal/storage"
)

var modkeyCmd = &cobra.Command{
	Use:   "modkey",
	Short: "Manage the moderator key used by /api/suggest-claims",
}

var modkeySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the moderator key (a random one is generated when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return withStore(func(s storage.Storage) error {
			return setModeratorKey(cmd.Context(), s, key, cmd.OutOrStdout())
		})
	},
}

var modkeyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored moderator key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(s storage.Storage) error {
			return showModeratorKey(cmd.Context(), s, cmd.OutOrStdout())
		})
	},
}

func init() {
	modkeyCmd.AddCommand(modkeySetCmd, modkeyShowCmd)
	rootCmd.AddCommand(modkeyCmd)
}

func withStore(fn func(storage.Storage) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	dsn := cfg.StoreDSN()
	if dsn == "" {
		return errors.New("DATABASE_URL is required")
	}
	store, err := storage.Open(dsn)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func setModeratorKey(ctx context.Context, s storage.Storage, key string, out io.Writer) error {
	key = strings.TrimSpace(key)
	if key == "" {
		key = uuid.NewString()
	}
	if err := s.SetModeratorKey(ctx, key); err != nil {
		return fmt.Errorf("set moderator key: %w", err)
	}
	fmt.Fprintln(out, key)
	return nil
}

func showModeratorKey(ctx context.Context, s storage.Storage, out io.Writer) error {
	key, err := s.ModeratorKey(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return errors.New("no moderator key stored; run `claimdesk modkey set`")
	}
	if err != nil {
		return fmt.Errorf("get moderator key: %w", err)
	}
	fmt.Fprintln(out, key)
	return nil
}
