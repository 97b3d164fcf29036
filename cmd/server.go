package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/inline-waitlist/internal/config"
	"github.com/example/inline-waitlist/internal/inline"
	"github.com/example/inline-waitlist/internal/line"
	"github.com/example/inline-waitlist/internal/scheduler"
	"github.com/example/inline-waitlist/internal/web"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the intake API, LINE webhook and polling worker in one process",
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

			notifier := line.New(cfg.LineChannelAccessToken)

			prober := inline.New()
			prober.BaseURL = cfg.InlineBaseURL

			s := &scheduler.Scheduler{
				Store:        st,
				Prober:       prober,
				Notifier:     notifier,
				ProbeDelay:   cfg.ProbeDelay,
				PassInterval: cfg.PassInterval,
			}
			go func() { _ = s.Run(ctx) }()

			ws := &web.Server{Store: st, Line: notifier, ChannelSecret: cfg.LineChannelSecret}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup (postgres only)")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
