package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/crisisready/fieldlink/pkg/config"
	"github.com/crisisready/fieldlink/pkg/observability"
)

func newLogoutCommand() *Command {
	return &Command{
		Name:        "logout",
		Description: "Clear the stored session",
		Flags:       flag.NewFlagSet("logout", flag.ExitOnError),
		Run:         runLogout,
	}
}

func runLogout(args []string) error {
	cmd := newLogoutCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	store, err := openVault(cfg, observability.NewNopMetrics())
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear vault: %w", err)
	}

	fmt.Println("Logged out")
	return nil
}
