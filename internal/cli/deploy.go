package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sndeploy/internal/cli/render"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var feeToken string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Declare and deploy the contracts of the deployment plan",
		Long: `Declare every contract of the deployment plan that the network doesn't know yet,
deploy them through the Universal Deployer Contract and export the addresses.

Families of the plan are deployed in order. All deploy calls of a family are sent
in one multicall, split in halves while a batch of more than 100 calls fails.
After each family, deployments/<network>_latest.json is written.

With --reset (the default) the previous ledger is overwritten. With --no-reset it is
first archived as deployments/<network>_<unix millis>.json.`,
		Example: `  sndeploy deploy --network devnet
  sndeploy deploy --network sepolia --fee strk --no-reset
  sndeploy deploy -n mainnet --plan deploy.mainnet.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			defer appCtx.sink.Stop()

			instance := appCtx.app
			if instance.Config.Network == nil {
				return fmt.Errorf("--network is required (available: %s)", strings.Join(instance.Networks.Names(), ", "))
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), !color.NoColor)
			network := instance.Config.Network
			renderer.PrintBanner(instance.Config, lo.CoalesceOrEmpty(feeToken, network.FeeToken, instance.Config.FeeToken, "eth"))

			result, err := instance.DeployContracts.Run(cmd.Context(), usecase.DeployContractsParams{
				FeeToken: feeToken,
			})
			if err != nil {
				return err
			}

			return renderer.Render(result)
		},
	}

	cmd.Flags().Bool("reset", true, "Overwrite <network>_latest.json")
	cmd.Flags().Bool("no-reset", false, "Archive <network>_latest.json before writing the new deployments")
	cmd.Flags().StringVar(&feeToken, "fee", "", "Fee token (eth or strk)")
	// bound through viper, resolved against the project root
	cmd.Flags().String("plan", "", "Deployment plan (default deploy.yaml, built-in plan when deploy.yaml is missing)")
	cmd.MarkFlagsMutuallyExclusive("reset", "no-reset")

	return cmd
}
