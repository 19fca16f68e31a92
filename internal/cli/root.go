// Package cli implements the shelfctl command tree. Commands talk to the
// LibMS backend through pkg/libms and keep the login session on disk via
// internal/session. What a role may do is decided by internal/authz
// before any network call; the backend enforces the same rules again.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/shelfctl/internal/authz"
	"github.com/me/shelfctl/internal/config"
	"github.com/me/shelfctl/internal/logging"
	"github.com/me/shelfctl/internal/session"
	"github.com/me/shelfctl/pkg/libms"
	"github.com/me/shelfctl/pkg/model"
)

var (
	flagServer    string
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger   *slog.Logger
	client   *libms.Client
	sessions *session.Store
)

// NewRootCmd creates the root cobra command for the shelfctl CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shelfctl",
		Short: "shelfctl — client for the LibMS library management service",
		Long:  "shelfctl browses catalogs, manages members and decides issue requests on a LibMS backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}
			if flagServer != "" {
				cfg.Server = flagServer
			}

			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			client = libms.NewClient(libms.Config{BaseURL: cfg.Server, Timeout: cfg.Timeout}, logger)

			sessions, err = session.DefaultStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if sess, ok := sessions.Current(); ok {
				client.SetToken(sess.Token)
			}
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "Backend API root (or SHELFCTL_SERVER env)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default ~/.shelfctl/config.yaml)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newRegisterCmd(),
		newRegisterOwnerCmd(),
		newLibrariesCmd(),
		newBooksCmd(),
		newUsersCmd(),
		newAdminCmd(),
		newRequestCmd(),
		newRequestsCmd(),
		newHistoryCmd(),
	)

	return root
}

func resolveConfig() (config.ClientConfig, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load()
}

// requireAction checks the stored session against the permission table
// and returns the session when the action is allowed. The tokenless case
// gets a login hint instead of a permission error.
func requireAction(action authz.Action) (*model.Session, error) {
	sess, ok := sessions.Current()
	if !ok {
		sess = nil
	}
	if authz.Allowed(sess, action) {
		return sess, nil
	}
	if sess == nil {
		return nil, fmt.Errorf("not logged in; run 'shelfctl login' first")
	}
	return nil, fmt.Errorf("your role (%s) may not %s", sess.Role, action)
}
