package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "favorites-admin",
	Short: "Favorites administration service",
	Long: `favorites-admin serves the administration pages used to create, modify,
activate and remove the favorites published on the dashboard.

Configuration is read from config.yaml (or CONFIG_PATH), an optional .env file
and the environment.

Examples:
  # Start the admin and health check services
  favorites-admin serve

  # Create the favorites schema and exit
  favorites-admin migrate`,
	SilenceUsage: true,
	// Running without a subcommand starts the service.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the admin and health check services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the favorites schema in the configured store and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate()
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
