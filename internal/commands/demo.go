package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"expiremap/internal/expiremap"
)

// NewDemoCmd walks through lazy expiry on the real clock.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show lazy expiry, default TTLs and iteration sweeping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When SIGINT/SIGTERM arrives, ctx is canceled and the demo stops early.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			short, _ := cmd.Flags().GetDuration("short")
			long, _ := cmd.Flags().GetDuration("long")
			if short <= 0 || long <= short {
				return fmt.Errorf("need 0 < --short < --long, got %s and %s", short, long)
			}
			if err := runDemo(ctx, slog.Default(), short, long); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done.")
			return nil
		},
	}
	cmd.Flags().Duration("short", 50*time.Millisecond, "TTL of the short-lived entries")
	cmd.Flags().Duration("long", time.Second, "TTL of the long-lived entry")
	return cmd
}

func runDemo(ctx context.Context, log *slog.Logger, short, long time.Duration) error {
	m := expiremap.NewFrom(
		[]expiremap.Pair[string, int]{{Key: "a", Value: 1}, {Key: "b", Value: 2}},
		expiremap.WithDefaultTTL(short),
	)
	m.SetTTL("c", 3, long)
	m.SetNoExpiry("pinned", 4)

	log.Info("demo starting", "default_ttl", short, "long_ttl", long)

	// -------------------------------------------------------------------
	// 1) Everything is visible right after insertion
	// -------------------------------------------------------------------
	log.Info("keys after insert", "keys", slices.Collect(m.Keys()), "live", m.LiveLen())

	// -------------------------------------------------------------------
	// 2) Wait past the short TTL without touching the map
	// -------------------------------------------------------------------
	wait := time.NewTimer(short + short/2)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
		return nil
	case <-wait.C:
	}

	// Nothing swept yet: raw Len still counts the dead entries.
	log.Info("after short ttl, before any read", "len", m.Len())

	if _, ok := m.Get("a"); !ok {
		log.Info("GET a: missing (expired and removed on read)", "len", m.Len())
	}

	// Iteration sweeps the rest.
	log.Info("keys after sweep", "keys", slices.Collect(m.Keys()), "len", m.Len())
	return nil
}
