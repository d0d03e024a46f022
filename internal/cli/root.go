package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/api"
	"github.com/barqchain/walletctl/internal/config"
	"github.com/barqchain/walletctl/internal/logging"
	"github.com/barqchain/walletctl/internal/session"
)

var (
	cfgFile string
	apiURL  string
	verbose bool

	cfg     config.Config
	logger  = logging.Discard()
	printer = NewPrinter()
	client  *api.Client
	store   *session.Store
	version = "dev"
)

var errNotSignedIn = errors.New("not signed in: run `walletctl login` first")

// sessionTokens defers token lookup until the store exists; the client and
// the store reference each other at startup.
type sessionTokens struct {
	store *session.Store
}

func (t *sessionTokens) Token() (string, bool) {
	if t.store == nil {
		return "", false
	}
	return t.store.Token()
}

var rootCmd = &cobra.Command{
	Use:   "walletctl",
	Short: "Barq wallet client CLI",
	Long: `walletctl is the terminal client for the Barq custodial wallet service.

It keeps a local signed-in session, composes value transfers with fee-aware
affordability checks, and exposes the explorer and mining actions of the
chain.

Example usage:
  walletctl login                      # Sign in and persist the session
  walletctl send <wallet-id> 25.00     # Transfer funds
  walletctl history --filter sent      # Browse outgoing activity
  walletctl chain info                 # Chain summary`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.walletctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "wallet service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initApp loads configuration and wires the gateway client and the durable
// session store.
func initApp() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.New(level)

	tokens := &sessionTokens{}
	httpc := &http.Client{}
	if cfg.RequestTimeout > 0 {
		httpc.Timeout = cfg.RequestTimeout
	}
	client = api.New(cfg.APIBaseURL, tokens, api.WithHTTPClient(httpc), api.WithLogger(logger))

	// Post-run hooks are skipped when a command fails; release any store a
	// previous Execute left open before reopening the file.
	if store != nil {
		_ = store.Close()
	}
	store, err = session.Open(cfg.SessionPath, client, logger)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	tokens.store = store

	logger.Debug("configuration loaded",
		"api_base_url", cfg.APIBaseURL,
		"session_path", cfg.SessionPath,
		"history_limit", cfg.HistoryLimit,
	)
	return nil
}

// requireSession returns the signed-in session or a user-facing error.
func requireSession() (session.Session, error) {
	sess, ok := store.Current()
	if !ok {
		return session.Session{}, errNotSignedIn
	}
	return sess, nil
}
