package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// NetworkResolver resolves network names to configurations
type NetworkResolver struct {
	contractsDir string
	snfoundry    *SnfoundryConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(contractsDir string, snfoundry *SnfoundryConfig) *NetworkResolver {
	return &NetworkResolver{
		contractsDir: contractsDir,
		snfoundry:    snfoundry,
	}
}

// Names returns the configured network names in sorted order
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.snfoundry.Profiles)
	sort.Strings(names)
	return names
}

// ListNetworks resolves every configured network. Networks that fail to resolve
// are returned with only their name and URL.
func (r *NetworkResolver) ListNetworks(ctx context.Context) ([]*config.Network, error) {
	return lo.Map(r.Names(), func(name string, _ int) *config.Network {
		network, err := r.Resolve(name)
		if err != nil {
			return &config.Network{Name: name, RPCURL: r.snfoundry.Profiles[name].URL}
		}
		return network
	}), nil
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	profile, exists := r.snfoundry.Profiles[networkName]
	if !exists {
		available := strings.Join(r.Names(), ", ")
		return nil, fmt.Errorf("network '%s' not found in %s [sncast.*] (available: %s)", networkName, SnfoundryFile, available)
	}

	if err := checkRPCURL(networkName, r.snfoundry.RawURLs[networkName], profile.URL); err != nil {
		return nil, err
	}

	override := r.snfoundry.Sndeploy.Networks[networkName]
	network := &config.Network{
		Name:                networkName,
		RPCURL:              profile.URL,
		Account:             profile.Account,
		AccountsFile:        r.resolvePath(profile.AccountsFile),
		WaitForConfirmation: defaultWait(networkName, profile.URL),
		FeeToken:            override.FeeToken,
	}
	if override.Wait != nil {
		network.WaitForConfirmation = *override.Wait
	}

	deployer, err := r.deployerAddress(network, override)
	if err != nil {
		return nil, err
	}
	network.DeployerAddress = deployer

	return network, nil
}

// deployerAddress prefers the explicit override and falls back to the sncast accounts file
func (r *NetworkResolver) deployerAddress(network *config.Network, override NetworkOverride) (*felt.Felt, error) {
	if override.Address != "" {
		address, err := starknet.ParseFelt(override.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid deployer address for network '%s': %w", network.Name, err)
		}
		return address, nil
	}
	if network.Account == "" || network.AccountsFile == "" {
		return nil, nil
	}
	return lookupAccountAddress(network.AccountsFile, network.Account)
}

// lookupAccountAddress finds account in an sncast accounts file. The file maps
// chain names to accounts; the first chain (sorted) holding the account wins.
// A missing file yields no address so the deployer check can report it.
func lookupAccountAddress(path, account string) (*felt.Felt, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var accounts map[string]map[string]struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file %s: %w", path, err)
	}

	chains := lo.Keys(accounts)
	sort.Strings(chains)
	for _, chain := range chains {
		if entry, ok := accounts[chain][account]; ok && entry.Address != "" {
			address, err := starknet.ParseFelt(entry.Address)
			if err != nil {
				return nil, fmt.Errorf("invalid address for account '%s' in %s: %w", account, path, err)
			}
			return address, nil
		}
	}
	return nil, nil
}

func (r *NetworkResolver) resolvePath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.contractsDir, path)
}

// defaultWait skips receipt polling on local devnets
func defaultWait(networkName, url string) bool {
	if networkName == "devnet" {
		return false
	}
	return !strings.Contains(url, "localhost") && !strings.Contains(url, "127.0.0.1")
}
