package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisready/fieldlink/pkg/config"
	"github.com/crisisready/fieldlink/pkg/identity"
	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/profile"
	"github.com/crisisready/fieldlink/pkg/session"
	"github.com/crisisready/fieldlink/pkg/vault"
)

func newLoginCommand() *Command {
	cmd := &Command{
		Name:        "login",
		Description: "Log in with typed backend credentials",
		Flags:       flag.NewFlagSet("login", flag.ExitOnError),
		Run:         runLogin,
	}

	cmd.Flags.String("username", "", "Backend username")
	cmd.Flags.String("password", "", "Backend password")
	cmd.Flags.String("log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func runLogin(args []string) error {
	cmd := newLoginCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	username := cmd.Flags.Lookup("username").Value.String()
	password := cmd.Flags.Lookup("password").Value.String()
	logLevel := cmd.Flags.Lookup("log-level").Value.String()

	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	log := setupLogger(logLevel)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stderr)
	metrics := observability.NewNopMetrics()

	store, err := openVault(cfg, metrics)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer store.Close()

	profiles := profile.NewHTTPStore(profile.HTTPStoreConfig{
		BaseURL:  cfg.Profile.BaseURL,
		CacheTTL: cfg.Profile.CacheTTL,
	}, store, logger, metrics)

	coordinator, err := session.New(session.Config{
		Provider: identity.NewNotifier(),
		Profiles: profiles,
		Vault:    store,
		Derive: session.SharedAccountPolicy(vault.Credentials{
			Username: cfg.Identity.SharedUsername,
			Password: cfg.Identity.SharedPassword,
		}),
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := coordinator.LoginDirect(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	state := coordinator.CurrentState()
	log.WithFields(logrus.Fields{
		"username": username,
		"role":     state.Profile.Role,
	}).Info("Logged in")
	fmt.Printf("Logged in as %s (%s)\n", username, state.Profile.Role)

	return nil
}
