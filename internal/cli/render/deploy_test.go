package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

func TestDeployRenderer_PrintBanner(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewDeployRenderer(&buf, false)

	renderer.PrintBanner(&config.RuntimeConfig{
		LedgerMode: config.LedgerArchive,
		Network: &config.Network{
			Name:            "sepolia",
			DeployerAddress: starknet.MustParseFelt("0x1234"),
		},
	}, "strk")

	out := buf.String()
	assert.Contains(t, out, "sepolia")
	assert.Contains(t, out, "0x1234")
	assert.Contains(t, out, "STRK")
	assert.Contains(t, out, "archive previous deployments")
}

func TestDeployRenderer_PrintBanner_NoNetwork(t *testing.T) {
	var buf bytes.Buffer
	NewDeployRenderer(&buf, false).PrintBanner(&config.RuntimeConfig{}, "eth")
	assert.Empty(t, buf.String())
}

func TestDeployRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewDeployRenderer(&buf, false)

	result := &usecase.DeployContractsResult{
		Network:    &config.Network{Name: "devnet"},
		FeeToken:   models.FeeTokenETH,
		LedgerMode: config.LedgerOverwrite,
		LedgerPath: "deployments/devnet_latest.json",
		Ledger: models.Ledger{
			"app":      &models.DeploymentRecord{},
			"referral": &models.DeploymentRecord{},
		},
		Families: []*usecase.FamilyResult{
			{
				Name: "core tokens",
				Contracts: []*usecase.DeployedContract{
					{
						Name:      "app",
						Contract:  "YourContract",
						ClassHash: starknet.MustParseFelt("0xabc"),
						Address:   starknet.MustParseFelt("0xdef"),
						Declared:  true,
					},
					{
						Name:      "referral",
						Contract:  "ReferralContract",
						ClassHash: starknet.MustParseFelt("0x123"),
						Address:   starknet.MustParseFelt("0x456"),
					},
				},
				TransactionHashes: []*felt.Felt{starknet.MustParseFelt("0x777")},
			},
		},
	}

	assert.NoError(t, renderer.Render(result))

	out := buf.String()
	assert.Contains(t, out, "Core Tokens")
	assert.Contains(t, out, "YourContract")
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "0xdef")
	assert.Contains(t, out, "declared")
	assert.Contains(t, out, "existing")
	assert.Contains(t, out, "Transaction: 0x777")
	assert.Contains(t, out, "2 deployments on devnet exported to deployments/devnet_latest.json (overwrite previous deployments)")
	assert.NotContains(t, out, "\x1b[")
}

func TestNetworksRenderer_Render(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, NewNetworksRenderer(&buf, false).Render(&usecase.ListNetworksResult{}))
		assert.Contains(t, buf.String(), "No networks configured")
	})

	t.Run("networks", func(t *testing.T) {
		var buf bytes.Buffer
		result := &usecase.ListNetworksResult{
			Networks: []usecase.NetworkStatus{
				{
					Name: "devnet",
					Network: &config.Network{
						Name:            "devnet",
						RPCURL:          "http://127.0.0.1:5050/rpc",
						DeployerAddress: starknet.MustParseFelt("0x1"),
					},
					Deployments: 3,
				},
				{
					Name: "sepolia",
					Network: &config.Network{
						Name:                "sepolia",
						RPCURL:              "https://starknet-sepolia.example/rpc",
						WaitForConfirmation: true,
					},
					Error: errors.New("broken ledger"),
				},
			},
		}

		assert.NoError(t, NewNetworksRenderer(&buf, false).Render(result))

		out := buf.String()
		assert.Contains(t, out, "devnet")
		assert.Contains(t, out, "http://127.0.0.1:5050/rpc")
		assert.Contains(t, out, "no wait")
		assert.Contains(t, out, "3")
		assert.Contains(t, out, "unknown")
		assert.Contains(t, out, "error: broken ledger")
	})
}

func TestFormatError(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = previous }()

	assert.Equal(t, "❌ Network 'x' not found", FormatError("network 'x' not found"))
	assert.Equal(t, "❌ ", FormatError(""))
}

func TestDeploymentsRenderer_Render(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, NewDeploymentsRenderer(&buf, false).Render(&usecase.DeploymentListResult{Network: "devnet"}))
		assert.Equal(t, "No deployments found on devnet\n", buf.String())
	})

	t.Run("deployments", func(t *testing.T) {
		var buf bytes.Buffer
		result := &usecase.DeploymentListResult{
			Network: "sepolia",
			Deployments: []usecase.DeploymentEntry{
				{Name: "app", Record: &models.DeploymentRecord{
					Contract:  "YourContract",
					Address:   starknet.MustParseFelt("0xdef"),
					ClassHash: starknet.MustParseFelt("0xabc"),
				}},
			},
			Summary: usecase.DeploymentSummary{Total: 1, ByContract: map[string]int{"YourContract": 1}},
		}

		assert.NoError(t, NewDeploymentsRenderer(&buf, false).Render(result))
		out := buf.String()
		assert.Contains(t, out, "SEPOLIA")
		assert.Contains(t, out, "1 deployments")
		assert.Contains(t, out, "YourContract")
		assert.Contains(t, out, "0xdef")
		assert.Contains(t, out, "0xabc")
	})
}
