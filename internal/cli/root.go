package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/sndeploy/internal/adapters/progress"
	"github.com/trebuchet-org/sndeploy/internal/app"
	"github.com/trebuchet-org/sndeploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// appContext is what PersistentPreRunE hands to the commands
type appContext struct {
	app   *app.App
	viper *viper.Viper
	sink  *progress.SpinnerProgressReporter
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sndeploy",
		Short: "Contract deployment pipeline for Starknet Foundry projects",
		Long: `sndeploy declares Scarb-compiled contracts, deploys them through the Universal
Deployer Contract in batched multicalls and exports the resulting addresses to
deployments/<network>_latest.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			projectRoot, _, err := config.FindProjectRoot(cwd)
			if err != nil {
				return err
			}

			// Set up viper
			v := config.SetupViper(projectRoot, cmd)

			sink := progress.NewSpinnerProgressReporterTo(cmd.OutOrStdout())

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, &appContext{app: appInstance, viper: v, sink: sink})

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				// Store cancel func to be called on command completion
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output and stream sncast output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use, an [sncast.<name>] profile in snfoundry.toml")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "main"
	rootCmd.AddCommand(listCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getAppContext retrieves the app context from the command context
func getAppContext(cmd *cobra.Command) (*appContext, error) {
	value := cmd.Context().Value(appKey)
	if value == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	appCtx, ok := value.(*appContext)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return appCtx, nil
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appCtx, err := getAppContext(cmd)
	if err != nil {
		return nil, err
	}
	return appCtx.app, nil
}
