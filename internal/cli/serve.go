package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the panels as a JSON API",
		Long: `Load the postings once and serve every panel over HTTP. Each request
carries its selection in the query string (skill, state, work_type,
include_other) and is answered by one stateless aggregation.`,
		Example: `  # Serve on the configured address
  skillscope serve

  # Serve on another port with Texas as the default state
  skillscope serve --addr :9090 --state TX`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().String("state", "", "Default state for requests without one")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := getSession(cmd)
	if err != nil {
		return err
	}
	t, err := s.Table()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Table:             t,
		Addr:              s.cfg.Server.Addr,
		DefaultState:      s.cfg.DefaultState,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   s.cfg.Server.ShutdownTimeout,
		Options:           s.Options(),
		Logger:            s.logger,
	})

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %s postings on %s\n", engine.FormatInt(t.Len()), s.cfg.Server.Addr)
	return srv.Serve(ctx)
}
