package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/posquery/pkg/buildinfo"
	"github.com/matzehuels/posquery/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "posquery"

	// configFileName is the name of the config file inside the config directory.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results, Err receives status lines.
	Out io.Writer
	Err io.Writer

	conn connFlags
}

// connFlags are the persistent connection flags. Unset flags fall back to
// the config file.
type connFlags struct {
	configPath string
	url        string
	database   string
	username   string
	password   string
	protocol   string
	timeout    time.Duration
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// SetLogLevel updates the logger's level. At debug level every remote call
// is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.SetRPCHooks(&rpcLogHooks{logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "posquery searches the point-of-sale catalog of an Odoo ERP",
		Long: `posquery connects to an Odoo server, authenticates once and lists the
products available in the point of sale, filtered by internal code and/or name.

Connection settings are read from the config file and can be overridden
with flags. Run 'posquery config init' to create a config file.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.conn.configPath, "config", "", "config file (default "+defaultConfigHint()+")")
	flags.StringVar(&c.conn.url, "url", "", "server base URL, e.g. https://erp.example.com")
	flags.StringVar(&c.conn.database, "db", "", "database name")
	flags.StringVar(&c.conn.username, "user", "", "login")
	flags.StringVar(&c.conn.password, "password", "", "password or API key (prompted if empty)")
	flags.StringVar(&c.conn.protocol, "protocol", "", "wire protocol: xmlrpc or jsonrpc (default xmlrpc)")
	flags.DurationVar(&c.conn.timeout, "timeout", 0, "per-call timeout (default 10s)")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.pingCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/posquery/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns the config file used when --config is not set.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func defaultConfigHint() string {
	return filepath.Join("$XDG_CONFIG_HOME", appName, configFileName)
}
