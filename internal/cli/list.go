package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sndeploy/internal/app"
	"github.com/trebuchet-org/sndeploy/internal/cli/render"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var contract string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments recorded for a network",
		Long:    `List the deployments recorded in deployments/<network>_latest.json.`,
		Example: `  # List all deployments on sepolia
  sndeploy list --network sepolia

  # List the YourContract deployments only
  sndeploy list -n devnet --contract YourContract`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			defer appCtx.sink.Stop()

			instance, err := ensureNetwork(cmd, appCtx)
			if err != nil {
				return err
			}

			result, err := instance.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Contract: contract,
			})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), !color.NoColor)
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "Filter by contract name")

	return cmd
}

// ensureNetwork asks for a network when none was given and rebuilds the app for it
func ensureNetwork(cmd *cobra.Command, appCtx *appContext) (*app.App, error) {
	instance := appCtx.app
	if instance.Config.Network != nil {
		return instance, nil
	}
	if instance.Config.NonInteractive {
		return nil, fmt.Errorf("--network is required in non-interactive mode (available: %s)", strings.Join(instance.Networks.Names(), ", "))
	}

	name, err := instance.Selector.SelectNetwork(cmd.Context(), instance.Networks.Names())
	if err != nil {
		return nil, err
	}

	appCtx.viper.Set("network", name)
	rebuilt, err := app.InitApp(appCtx.viper, appCtx.sink)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	appCtx.app = rebuilt
	return rebuilt, nil
}
