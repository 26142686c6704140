package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, alpha-mainnet -> ALPHA_MAINNET_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// checkRPCURL reports a missing URL with a hint on how to provide it
func checkRPCURL(networkName, rawURL, expandedURL string) error {
	if expandedURL != "" {
		return nil
	}
	if envVar, ok := DetectEnvVar(rawURL); ok {
		if _, set := os.LookupEnv(envVar); !set {
			return fmt.Errorf("RPC URL for network '%s' references ${%s} which is not set (add it to .env)", networkName, envVar)
		}
	}
	return fmt.Errorf("network '%s' has no url in %s (set url = \"${%s}\" under [sncast.%s])",
		networkName, SnfoundryFile, GenerateEnvVarName(networkName), networkName)
}
