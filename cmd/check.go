package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/example/inline-waitlist/internal/config"
	"github.com/example/inline-waitlist/internal/inline"
	"github.com/example/inline-waitlist/internal/line"
	"github.com/example/inline-waitlist/internal/scheduler"
)

// check runs exactly one pass, for cron-style triggering. It is safe to
// run while a server or worker loop is live against the same store: the
// conditional status update keeps the two from double-notifying.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single pass over all pending watches and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()

			st, err := openStore(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer st.Close()

			prober := inline.New()
			prober.BaseURL = cfg.InlineBaseURL

			s := &scheduler.Scheduler{
				Store:      st,
				Prober:     prober,
				Notifier:   line.New(cfg.LineChannelAccessToken),
				ProbeDelay: cfg.ProbeDelay,
			}

			if err := s.RunOnce(ctx); err != nil {
				return err
			}
			log.Printf("check: pass complete")
			return nil
		},
	}
}
