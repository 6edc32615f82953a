// Package cli implements the tracker command line client.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackly/tracker/internal/client"
	"github.com/trackly/tracker/internal/logging"
	"github.com/trackly/tracker/internal/session"
)

// app is the state shared by every subcommand, built once flags are parsed.
type app struct {
	configPath string
	apiURL     string
	verbose    bool

	cfg    *Config
	client *client.Client
}

// NewRootCommand builds the tracker command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Issue tracker client",
		Long:          `Manage projects and issues on a tracker server from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/tracker/config.yaml)")
	flags.StringVar(&a.apiURL, "api-url", "", "API base URL, overrides the config file and "+envAPIURL)
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every API call")

	root.AddCommand(
		a.loginCommand(),
		a.signupCommand(),
		a.logoutCommand(),
		a.projectsCommand(),
		a.issuesCommand(),
		a.dashboardCommand(),
		a.settingsCommand(),
		a.healthCommand(),
		a.tuiCommand(),
	)
	return root
}

func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.BaseURL = a.apiURL
	}
	a.cfg = cfg

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			return fmt.Errorf("locate session: %w", err)
		}
	}
	sess, err := session.Load(sessionPath)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if a.verbose {
		logger = logging.Named("client")
	}
	a.client = client.New(client.Options{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Session:           sess,
		Logger:            logger,
	})
	return nil
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
