package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/uml"
)

// Configuration keys. Each may be set in goxmi.yaml or as a GOXMI_
// environment variable, with dots replaced by underscores.
const (
	keyDialect    = "dialect"
	keyStrictness = "strictness"
	keyFormat     = "format"
	keyCacheSize  = "cache_size"
	keyServeAddr  = "serve.addr"
	keyExportPath = "export.path"
	keyIgnore     = "ignore"
)

type cli struct {
	verbose    int
	configFile string
	v          *viper.Viper
	cmd        *cobra.Command
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetDefault(keyStrictness, "normal")
	c.v.SetDefault(keyFormat, formatJSON)
	c.v.SetDefault(keyCacheSize, goxmi.DefaultCacheSize)
	c.v.SetDefault(keyServeAddr, ":8080")
	c.v.SetDefault(keyExportPath, "goxmi.db")

	cmd := &cobra.Command{
		Use:   "goxmi",
		Short: "Load and inspect XMI UML exports",
		Long: `goxmi reads XMI exports from Enterprise Architect style modelling tools
and assembles them into a UML document graph of packages, classes,
enumerations and associations.

Configuration is read from goxmi.yaml in the current directory or in
$HOME/.config/goxmi, from GOXMI_* environment variables and from an
optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig()
		},
	}
	c.cmd = cmd

	flags := cmd.PersistentFlags()
	flags.CountVarP(&c.verbose, "verbose", "v", "debug logging (-vv for trace)")
	flags.StringVar(&c.configFile, "config", "", "config file (default: goxmi.yaml)")
	flags.String("dialect", "", "force the export dialect: "+strings.Join(goxmi.Dialects(), ", "))
	flags.String("strictness", "", "diagnostic strictness: strict, normal, permissive, silent")
	_ = c.v.BindPFlag(keyDialect, flags.Lookup("dialect"))
	_ = c.v.BindPFlag(keyStrictness, flags.Lookup("strictness"))

	cmd.AddCommand(
		c.newLoadCmd(),
		c.newDumpCmd(),
		c.newGetCmd(),
		c.newTreeCmd(),
		c.newLintCmd(),
		c.newExportCmd(),
		c.newServeCmd(),
		c.newWatchCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (c *cli) initConfig() error {
	// A missing .env is the common case.
	_ = godotenv.Load()

	c.v.SetEnvPrefix("GOXMI")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if c.configFile != "" {
		c.v.SetConfigFile(c.configFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", c.configFile, err)
		}
		return nil
	}

	c.v.SetConfigName("goxmi")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		c.v.AddConfigPath(filepath.Join(home, ".config", "goxmi"))
	}
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func (c *cli) setupLogger() *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = goxmi.LevelTrace
	}
	return slog.New(slog.NewTextHandler(c.cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

func (c *cli) diagConfig() (uml.DiagnosticConfig, error) {
	level, err := uml.ParseStrictness(c.v.GetString(keyStrictness))
	if err != nil {
		return uml.DiagnosticConfig{}, err
	}
	cfg := uml.DefaultConfig()
	cfg.Level = level
	cfg.Ignore = c.v.GetStringSlice(keyIgnore)
	return cfg, nil
}

func (c *cli) loadOptions() ([]goxmi.LoadOption, error) {
	cfg, err := c.diagConfig()
	if err != nil {
		return nil, err
	}
	opts := []goxmi.LoadOption{
		goxmi.WithDiagnosticConfig(cfg),
		goxmi.WithDialect(c.v.GetString(keyDialect)),
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, goxmi.WithLogger(logger))
	}
	return opts, nil
}

// loadFile loads one document. A document is returned alongside
// goxmi.ErrDiagnostics so callers can still print it.
func (c *cli) loadFile(cmd *cobra.Command, path string) (*uml.Document, error) {
	opts, err := c.loadOptions()
	if err != nil {
		return nil, err
	}
	return goxmi.LoadFile(cmd.Context(), path, opts...)
}
