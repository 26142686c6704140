package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	previous := color.NoColor
	if !r.color {
		color.NoColor = true
	}
	defer func() { color.NoColor = previous }()

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in snfoundry.toml [sncast.*]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	rows := lo.Map(result.Networks, func(status usecase.NetworkStatus, _ int) []string {
		deployer := color.New(color.FgRed).Sprint("unknown")
		url := ""
		wait := ""
		if status.Network != nil {
			url = status.Network.RPCURL
			if status.Network.DeployerAddress != nil {
				deployer = status.Network.DeployerAddress.String()
			}
			wait = lo.Ternary(status.Network.WaitForConfirmation, "wait", "no wait")
		}

		deployments := fmt.Sprintf("%d", status.Deployments)
		if status.Error != nil {
			deployments = color.New(color.FgRed).Sprintf("error: %v", status.Error)
		}

		return []string{
			color.New(color.FgGreen, color.Bold).Sprint(status.Name),
			url,
			deployer,
			wait,
			deployments,
		}
	})
	fmt.Fprintln(r.out, renderTable([]string{"Network", "RPC", "Deployer", "Receipts", "Deployments"}, rows))

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
