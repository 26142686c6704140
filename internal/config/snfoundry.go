package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// SnfoundryFile is the name of the Starknet Foundry config file
const SnfoundryFile = "snfoundry.toml"

// SnfoundryTOML represents the raw snfoundry.toml structure
type SnfoundryTOML struct {
	Sncast   map[string]SncastProfile `toml:"sncast"`
	Sndeploy SndeploySection          `toml:"sndeploy"`
}

// SncastProfile is a `[sncast.<name>]` table
type SncastProfile struct {
	URL          string `toml:"url"`
	Account      string `toml:"account"`
	AccountsFile string `toml:"accounts-file"`
}

// SndeploySection holds settings that sncast ignores
type SndeploySection struct {
	FeeToken string                     `toml:"fee_token"`
	Plan     string                     `toml:"plan"`
	Networks map[string]NetworkOverride `toml:"networks"`
}

// NetworkOverride is a `[sndeploy.networks.<name>]` table
type NetworkOverride struct {
	Address  string `toml:"address"`
	Wait     *bool  `toml:"wait"`
	FeeToken string `toml:"fee_token"`
}

// SnfoundryConfig is the loaded configuration with environment variables expanded
type SnfoundryConfig struct {
	Path     string
	Profiles map[string]SncastProfile
	Sndeploy SndeploySection
	// RawURLs keeps profile URLs before expansion to report unset variables
	RawURLs map[string]string
}

// loadEnvFiles loads .env files from dir for variable expansion. Variables
// already present in the environment win.
func loadEnvFiles(dir string) {
	envFiles := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadSnfoundryConfig loads and parses snfoundry.toml from contractsDir
func loadSnfoundryConfig(projectRoot, contractsDir string) (*SnfoundryConfig, error) {
	loadEnvFiles(projectRoot)
	if contractsDir != projectRoot {
		loadEnvFiles(contractsDir)
	}

	path := filepath.Join(contractsDir, SnfoundryFile)
	var raw SnfoundryTOML
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SnfoundryFile, err)
	}

	cfg := &SnfoundryConfig{
		Path:     path,
		Profiles: make(map[string]SncastProfile, len(raw.Sncast)),
		RawURLs:  make(map[string]string, len(raw.Sncast)),
		Sndeploy: SndeploySection{
			FeeToken: os.ExpandEnv(raw.Sndeploy.FeeToken),
			Plan:     os.ExpandEnv(raw.Sndeploy.Plan),
			Networks: make(map[string]NetworkOverride, len(raw.Sndeploy.Networks)),
		},
	}

	for name, profile := range raw.Sncast {
		cfg.RawURLs[name] = profile.URL
		cfg.Profiles[name] = SncastProfile{
			URL:          os.ExpandEnv(profile.URL),
			Account:      os.ExpandEnv(profile.Account),
			AccountsFile: os.ExpandEnv(profile.AccountsFile),
		}
	}

	for name, override := range raw.Sndeploy.Networks {
		cfg.Sndeploy.Networks[name] = NetworkOverride{
			Address:  os.ExpandEnv(override.Address),
			Wait:     override.Wait,
			FeeToken: os.ExpandEnv(override.FeeToken),
		}
	}

	return cfg, nil
}
