package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"expiremap/internal/config"
	"expiremap/internal/expiremap"
)

// Execute runs the CLI application.
func Execute(version string) error {
	root := NewRootCmd(version)
	err := root.Execute()
	if err != nil {
		slog.Error("command failed", "error", err.Error())
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "expiremap",
		Short:         "In-memory map with lazily expiring entries",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), s, verbose(cmd.Flags())))
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Settings file (default: $"+config.EnvConfigPath+" or ./"+config.DefaultFile+")")
	root.PersistentFlags().String("default-ttl", "", `Default entry TTL, e.g. 500ms; "none" disables expiry`)
	root.PersistentFlags().String("log-format", "", "Log format: json or text")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewShellCmd())
	return root
}

// loadSettings reads the settings file, then lets explicitly set flags
// override it.
func loadSettings(fs *pflag.FlagSet) (config.Settings, error) {
	path, _ := fs.GetString("config")
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}

	if fs.Changed("default-ttl") {
		raw, _ := fs.GetString("default-ttl")
		if _, err := config.ParseTTL(raw); err != nil {
			return config.Settings{}, fmt.Errorf("--default-ttl: %w", err)
		}
		s.DefaultTTL = raw
	}
	if fs.Changed("log-format") {
		s.LogFormat, _ = fs.GetString("log-format")
		if s.LogFormat != "json" && s.LogFormat != "text" {
			return config.Settings{}, fmt.Errorf("--log-format %q: want json or text", s.LogFormat)
		}
	}
	return s, nil
}

func verbose(fs *pflag.FlagSet) bool {
	v, _ := fs.GetBool("verbose")
	return v
}

func newLogger(w io.Writer, s config.Settings, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newMap builds the string map every subcommand works on.
func newMap(cmd *cobra.Command) (*expiremap.Map[string, string], config.Settings, error) {
	s, err := loadSettings(cmd.Flags())
	if err != nil {
		return nil, config.Settings{}, err
	}
	ttl, err := s.TTL()
	if err != nil {
		return nil, config.Settings{}, err
	}
	return expiremap.New[string, string](expiremap.WithOptionalDefaultTTL(ttl)), s, nil
}
