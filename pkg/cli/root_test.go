package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crisisready/fieldlink/pkg/config"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	// Test basic properties
	assert.Equal(t, "fieldlink", root.Name)
	assert.NotNil(t, root.Subcommands)
	assert.NotNil(t, root.Flags)

	// Test that all expected subcommands are registered
	expectedCommands := []string{
		"login",
		"whoami",
		"call",
		"logout",
	}

	for _, cmdName := range expectedCommands {
		assert.Contains(t, root.Subcommands, cmdName, "Expected subcommand %s to be registered", cmdName)
		assert.NotNil(t, root.Subcommands[cmdName], "Expected subcommand %s to be non-nil", cmdName)
	}

	// Verify the exact number of subcommands
	assert.Equal(t, len(expectedCommands), len(root.Subcommands))
}

func TestCommandUsage(t *testing.T) {
	root := NewRootCommand()

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := root.usage()

	// Restore stdout
	w.Close()
	os.Stdout = oldStdout

	// Read captured output
	var buf bytes.Buffer
	io.Copy(&buf, r)
	output := buf.String()

	// Verify no error
	assert.NoError(t, err)

	// Verify output contains expected content
	assert.Contains(t, output, "Usage: fieldlink <command> [args]")
	assert.Contains(t, output, "Commands:")
	assert.Contains(t, output, "login")
	assert.Contains(t, output, "whoami")
	assert.Contains(t, output, "call")
	assert.Contains(t, output, "logout")
}

func TestExecuteUnknownCommand(t *testing.T) {
	root := NewRootCommand()

	oldArgs := os.Args
	os.Args = []string{"fieldlink", "frobnicate"}
	defer func() { os.Args = oldArgs }()

	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestOpenVaultMemory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Vault.Backend = "memory"

	store, err := openVault(cfg, nil)
	assert.NoError(t, err)
	assert.NotNil(t, store)
	store.Close()
}

func TestOpenVaultUnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Vault.Backend = "etcd"

	_, err := openVault(cfg, nil)
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	logger := setupLogger("debug")
	assert.NotNil(t, logger)

	// Invalid levels fall back to info
	logger = setupLogger("not-a-level")
	assert.NotNil(t, logger)
}
