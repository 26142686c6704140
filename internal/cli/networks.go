package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sndeploy/internal/cli/render"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from snfoundry.toml",
		Long: `List all networks configured as [sncast.<name>] profiles in snfoundry.toml,
with their deployer account and the number of recorded deployments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), !color.NoColor)
			return renderer.Render(result)
		},
	}

	return cmd
}
