package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/inline-waitlist/internal/config"
	"github.com/example/inline-waitlist/internal/inline"
	"github.com/example/inline-waitlist/internal/line"
	"github.com/example/inline-waitlist/internal/scheduler"
)

func newWorkerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the polling worker loop without the web surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, err := openStore(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer st.Close()

			prober := inline.New()
			prober.BaseURL = cfg.InlineBaseURL

			s := &scheduler.Scheduler{
				Store:        st,
				Prober:       prober,
				Notifier:     line.New(cfg.LineChannelAccessToken),
				ProbeDelay:   cfg.ProbeDelay,
				PassInterval: cfg.PassInterval,
			}

			log.Printf("worker: starting poll loop (probe delay %s, pass interval %s)", cfg.ProbeDelay, cfg.PassInterval)
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup (postgres only)")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
