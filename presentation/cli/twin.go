package cli

import (
	"os/signal"
	"syscall"

	"checkout_automation/infrastructure/config"
	"checkout_automation/infrastructure/twin"

	"github.com/spf13/cobra"
)

const flagAddr = "addr"

func (a *App) twinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twin",
		Short: "Serve the reqres users stand-in until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString(flagAddr)
			latency, _ := cmd.Flags().GetDuration("latency")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return twin.New(twin.Options{
				APIKey:  a.props.GetOr(config.KeyAPIKey, config.DefaultAPIKey),
				Latency: latency,
			}, a.logger).Serve(ctx, addr)
		},
	}
	cmd.Flags().String(flagAddr, ":8080", "Listen address")
	cmd.Flags().Duration("latency", 0, "Delay added to every response")
	return cmd
}
