package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crisisready/fieldlink/pkg/config"
	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/restexec"
)

func newCallCommand() *Command {
	cmd := &Command{
		Name:        "call",
		Description: "Perform an authenticated backend request",
		Flags:       flag.NewFlagSet("call", flag.ExitOnError),
		Run:         runCall,
	}

	cmd.Flags.String("method", "GET", "HTTP method")
	cmd.Flags.String("path", "", "Request path, e.g. /v1/incidents")
	cmd.Flags.Bool("stdin", false, "Read the request body from stdin")

	return cmd
}

func runCall(args []string) error {
	cmd := newCallCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	method := strings.ToUpper(cmd.Flags.Lookup("method").Value.String())
	path := cmd.Flags.Lookup("path").Value.String()
	fromStdin := cmd.Flags.Lookup("stdin").Value.String() == "true"

	if path == "" {
		return fmt.Errorf("path is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	metrics := observability.NewNopMetrics()
	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stderr)

	store, err := openVault(cfg, metrics)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer store.Close()

	var body []byte
	if fromStdin {
		body, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read request body: %w", err)
		}
	}

	executor := restexec.NewExecutor(restexec.Config{
		BaseURL: cfg.Backend.BaseURL,
	}, &vaultSource{store: store}, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	resp, err := executor.Do(ctx, restexec.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "HTTP %d\n", resp.Status)
	if len(resp.Body) > 0 {
		fmt.Println(string(resp.Body))
	}

	return nil
}
