// Command modaviva runs the Moda Viva API server.
//
//	modaviva                 # same as `modaviva serve`
//	modaviva serve --port 5000
//	modaviva route:list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/app/routes"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/app"
)

func main() {
	if err := newRootCmd(app.New().Routes(routes.RegisterAPI)).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app.Application) *cobra.Command {
	serve := newServeCmd(a)

	root := &cobra.Command{
		Use:           "modaviva",
		Short:         "Moda Viva API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the bare binary starts the server.
		RunE: serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(newRouteListCmd(a))
	return root
}
