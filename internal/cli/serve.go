package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/techflow/pkg/dashboard"
)

// serveCommand creates the dashboard command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the technology dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			popts, err := c.pipelineOptions()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			say(statusInfo, "Dashboard on %s", StyleLink.Render(dashboardURL(addr)))
			keyValue("Source", runner.Source())
			keyValue("Form", string(runner.Form()))
			return dashboard.New(runner, c.Logger, popts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

// dashboardURL turns a listen address into a clickable URL.
func dashboardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
