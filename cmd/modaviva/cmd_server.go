package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/config"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/app"
)

// modaviva serve — bind the port and serve until SIGINT/SIGTERM.
func newServeCmd(a *app.Application) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start", "run"},
		Short:   "Start the HTTP server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				config.Set("APP_PORT", strconv.Itoa(port))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.Boot(ctx, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 5000, "TCP port to listen on (overrides APP_PORT)")
	return cmd
}

// modaviva route:list — print every route the server would mount.
func newRouteListCmd(a *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List registered routes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := a.RouteList()
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No routes registered.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}
