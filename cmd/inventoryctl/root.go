package main

import (
	"strings"

	"github.com/GianImpedovo/is-inventoryapp/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	apiURLKey     = "api-url"
	defaultAPIURL = "http://localhost:80"
	envPrefix     = "INVENTORY"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	client *client.Client
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault(apiURLKey, defaultAPIURL)

	rootCmd := &cobra.Command{
		Use:   "inventoryctl",
		Short: "Manage the product inventory from the terminal",
		Long: `inventoryctl lists, searches and edits the products stored by the inventory service.

The API base URL comes from --api-url or INVENTORY_API_URL (default http://localhost:80).

Examples:
  inventoryctl list --search bolt --category Hardware
  inventoryctl add --name "Steel Bolt" --quantity 10 --price 0.25
  inventoryctl update 3 --quantity 7
  inventoryctl delete 3`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.client = client.New(a.v.GetString(apiURLKey), nil)
			return nil
		},
	}

	rootCmd.PersistentFlags().String(apiURLKey, "", "Base URL of the inventory API")
	_ = a.v.BindPFlag(apiURLKey, rootCmd.PersistentFlags().Lookup(apiURLKey))

	rootCmd.AddCommand(
		newListCommand(a),
		newAddCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newStatsCommand(a),
		newHealthCommand(a),
		newMigrateCommand(),
	)
	return rootCmd
}
