package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/arsip-kita/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long:  "Load the board once and serve it as a JSON API until interrupted.",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $ARSIP_ADDR or 127.0.0.1:8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	a := newApp()
	defer a.close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := a.board()
	b.Load(ctx)
	defer b.Close()

	srv := server.New(b, a.logger, a.metrics, a.cfg.CORSOrigins)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		exitErr("serve", err)
	}
}
