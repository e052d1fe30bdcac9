package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tablelens/internal/config"
	"github.com/KaramelBytes/tablelens/internal/logger"
	"github.com/KaramelBytes/tablelens/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *cfgpkg.Defaults()
		if cfg != nil {
			c = *cfg
		}
		if serveAddr != "" {
			c.ListenAddr = serveAddr
		}
		if err := c.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(&c, logger.Log).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, e.g. :8000 (overrides config)")
}
