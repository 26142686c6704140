package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
)

const (
	defaultContractsDir = "contracts"
	defaultPlanFile     = "deploy.yaml"
	dataDir             = ".sndeploy"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	contractsDir := v.GetString("contracts_dir")
	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root, detected, err := FindProjectRoot(cwd)
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
		projectRoot = root
		if contractsDir == "" {
			contractsDir = detected
		}
	}
	if contractsDir == "" {
		contractsDir = detectContractsDir(projectRoot)
	}
	contractsDir = resolveAgainst(projectRoot, contractsDir)

	snfoundry, err := loadSnfoundryConfig(projectRoot, contractsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", SnfoundryFile, err)
	}

	reset := v.GetBool("reset")
	if v.GetBool("no_reset") {
		reset = false
	}

	explicitPlan := lo.CoalesceOrEmpty(v.GetString("plan"), snfoundry.Sndeploy.Plan)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ContractsDir:   contractsDir,
		BuildDir:       resolveAgainst(projectRoot, lo.CoalesceOrEmpty(v.GetString("build_dir"), filepath.Join(contractsDir, "target", "dev"))),
		DeploymentsDir: resolveAgainst(projectRoot, lo.CoalesceOrEmpty(v.GetString("deployments_dir"), "deployments")),
		PlanFile:       resolveAgainst(projectRoot, lo.CoalesceOrEmpty(explicitPlan, defaultPlanFile)),
		PlanExplicit:   explicitPlan != "",
		FeeToken:       lo.CoalesceOrEmpty(v.GetString("fee_token"), snfoundry.Sndeploy.FeeToken),
		LedgerMode:     config.LedgerModeFromReset(reset),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		PollInterval:   v.GetDuration("poll_interval"),
		SncastPath:     v.GetString("sncast"),
		ConfigSource:   snfoundry.Path,
	}

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(contractsDir, snfoundry).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from dir to find snfoundry.toml, either directly or
// in a contracts/ subdirectory. It returns the project root and the directory
// holding snfoundry.toml.
func FindProjectRoot(dir string) (string, string, error) {
	for {
		if fileExists(filepath.Join(dir, defaultContractsDir, SnfoundryFile)) {
			return dir, filepath.Join(dir, defaultContractsDir), nil
		}
		if fileExists(filepath.Join(dir, SnfoundryFile)) {
			if filepath.Base(dir) == defaultContractsDir {
				return filepath.Dir(dir), dir, nil
			}
			return dir, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("not in a Starknet Foundry project (%s not found)", SnfoundryFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, dataDir))

	// Set up environment variables
	v.SetEnvPrefix("SNDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "30m")
	v.SetDefault("poll_interval", "5s")
	v.SetDefault("reset", true)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("sncast", "sncast")
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) (*NetworkResolver, error) {
	snfoundry, err := loadSnfoundryConfig(cfg.ProjectRoot, cfg.ContractsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", SnfoundryFile, err)
	}
	return NewNetworkResolver(cfg.ContractsDir, snfoundry), nil
}

func detectContractsDir(projectRoot string) string {
	if fileExists(filepath.Join(projectRoot, defaultContractsDir, SnfoundryFile)) {
		return filepath.Join(projectRoot, defaultContractsDir)
	}
	return projectRoot
}

func resolveAgainst(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
