package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/crisisready/fieldlink/pkg/config"
	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/profile"
)

func newWhoamiCommand() *Command {
	cmd := &Command{
		Name:        "whoami",
		Description: "Show the stored session profile",
		Flags:       flag.NewFlagSet("whoami", flag.ExitOnError),
		Run:         runWhoami,
	}

	cmd.Flags.Bool("json", false, "Print the raw profile snapshot as JSON")

	return cmd
}

func runWhoami(args []string) error {
	cmd := newWhoamiCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	asJSON := cmd.Flags.Lookup("json").Value.String() == "true"

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	store, err := openVault(cfg, observability.NewNopMetrics())
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer store.Close()

	snapshot, err := store.ProfileSnapshot(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read profile snapshot: %w", err)
	}
	if snapshot == nil {
		return fmt.Errorf("no active session; run login first")
	}

	if asJSON {
		fmt.Println(string(snapshot))
		return nil
	}

	var p profile.UserProfile
	if err := json.Unmarshal(snapshot, &p); err != nil {
		return fmt.Errorf("stored profile snapshot is corrupt: %w", err)
	}

	fmt.Printf("ID:    %s\n", p.ID)
	fmt.Printf("Name:  %s\n", p.Name)
	fmt.Printf("Role:  %s\n", p.Role)
	if p.Email != "" {
		fmt.Printf("Email: %s\n", p.Email)
	}
	if p.Phone != "" {
		fmt.Printf("Phone: %s\n", p.Phone)
	}

	return nil
}
