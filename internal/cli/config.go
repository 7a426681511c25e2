package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

// fileConfig is the on-disk connection config.
type fileConfig struct {
	URL      string   `toml:"url"`
	Database string   `toml:"database"`
	Username string   `toml:"username"`
	Password string   `toml:"password,omitempty"`
	Protocol string   `toml:"protocol,omitempty"`
	Timeout  duration `toml:"timeout,omitempty"`
}

// duration decodes TOML strings such as "15s" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const configTemplate = `# posquery connection settings.
# Flags (--url, --db, --user, --password, --protocol, --timeout) override these.

url = "https://erp.example.com"
database = "production"
username = "pos-reader"

# Leave empty to be prompted. An API key generated in the user's
# preferences can be used instead of the login password.
password = ""

# xmlrpc (default) or jsonrpc
protocol = "xmlrpc"

timeout = "10s"
`

// loadFileConfig reads the config file at path. A missing file is only an
// error if the path was given explicitly.
func loadFileConfig(path string, explicit bool) (fileConfig, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !explicit {
			return fileConfig{}, nil
		}
		return fileConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return fc, nil
}

// resolveConfig merges the config file and the connection flags. Flags win
// over the file. If no password is set and stdin is a terminal, it is
// prompted for.
func (c *CLI) resolveConfig() (odoo.Config, error) {
	path, err := c.configFile()
	if err != nil {
		return odoo.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
	}

	fc, err := loadFileConfig(path, c.conn.configPath != "")
	if err != nil {
		return odoo.Config{}, err
	}
	if fc.Password != "" && worldReadable(path) {
		printWarning(c.Err, "%s holds a password and is readable by other users (chmod 600 it)", path)
	}

	cfg := odoo.Config{
		URL:      firstNonEmpty(c.conn.url, fc.URL),
		Database: firstNonEmpty(c.conn.database, fc.Database),
		Username: firstNonEmpty(c.conn.username, fc.Username),
		Password: firstNonEmpty(c.conn.password, fc.Password),
		Protocol: integrations.Protocol(firstNonEmpty(c.conn.protocol, fc.Protocol)),
		Timeout:  fc.Timeout.Duration,
	}
	if c.conn.timeout != 0 {
		cfg.Timeout = c.conn.timeout
	}

	if cfg.Password == "" && cfg.URL != "" && term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := promptPassword(c, cfg)
		if err != nil {
			return odoo.Config{}, err
		}
		cfg.Password = pw
	}

	return cfg, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(c *CLI, cfg odoo.Config) (string, error) {
	fmt.Fprintf(c.Err, "Password for %s@%s: ", cfg.Username, cfg.Database)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.Err)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read password")
	}
	return string(pw), nil
}

func worldReadable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().Perm()&0o077 != 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// config command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the connection config file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, path)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file template",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "config %s already exists (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			printSuccess(c.Err, "Config written")
			printFile(c.Err, path)
			printNextStep(c.Err, "Edit it, then check the connection", appName+" ping")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configFile returns --config if set, otherwise the default path.
func (c *CLI) configFile() (string, error) {
	if c.conn.configPath != "" {
		return c.conn.configPath, nil
	}
	path, err := defaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return path, nil
}
