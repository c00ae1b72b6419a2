package commands

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"expiremap/internal/shell"
)

// NewShellCmd starts an interactive session over a string map.
func NewShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive get/set/iterate over an expiring map",
		Long:  "Reads one command per line from stdin. Type help for the command list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, s, err := newMap(cmd)
			if err != nil {
				return err
			}

			// Only prompt humans; piped scripts get clean output.
			prompt := ""
			if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
				prompt = s.Prompt
			}

			slog.Debug("shell starting", "default_ttl", s.DefaultTTL, "interactive", prompt != "")
			sh := shell.New(m, cmd.OutOrStdout(), prompt, slog.Default())
			return sh.Run(cmd.Context(), cmd.InOrStdin())
		},
	}
}
