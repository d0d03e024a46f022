package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func setupCLITest(t *testing.T) *bytes.Buffer {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WALLETCTL_SESSION_PATH", filepath.Join(dir, "session.db"))
	t.Setenv("WALLETCTL_API_BASE_URL", "http://127.0.0.1:1/api")
	t.Setenv("NO_COLOR", "1")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	return buf
}

func TestRootCmd_Help(t *testing.T) {
	buf := setupCLITest(t)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "walletctl") {
		t.Errorf("expected help output to contain 'walletctl', got:\n%s", out)
	}
}

func TestRootCmd_SubcommandsList(t *testing.T) {
	buf := setupCLITest(t)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	for _, name := range []string{"login", "logout", "register", "send", "balance", "history", "beneficiary", "blocks", "chain", "mine", "validate", "reports", "whoami", "profile", "tx", "version"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected help output to list %q command, got:\n%s", name, out)
		}
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	setupCLITest(t)
	rootCmd.SetArgs([]string{"nonexistent-command"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
}

func TestVersionCmd(t *testing.T) {
	setupCLITest(t)
	rootCmd.SetArgs([]string{"version"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
}

func TestAuthenticatedCommandsRequireSession(t *testing.T) {
	setupCLITest(t)

	for _, args := range [][]string{
		{"balance"},
		{"history"},
		{"send", "wallet-aaaaaaaaaaaa", "1"},
		{"beneficiary", "list"},
		{"mine"},
		{"reports", "monthly"},
		{"whoami"},
		{"profile"},
		{"profile", "update", "--name", "x"},
		{"tx", "somehash"},
	} {
		rootCmd.SetArgs(args)
		err := rootCmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "not signed in") {
			t.Errorf("%v: expected not-signed-in error, got %v", args, err)
		}
	}
}
