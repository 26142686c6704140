package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// DeploymentsRenderer renders the ledger of a network
type DeploymentsRenderer struct {
	out   io.Writer
	color bool
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, color bool) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the deployment list
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	previous := color.NoColor
	if !r.color {
		color.NoColor = true
	}
	defer func() { color.NoColor = previous }()

	if len(result.Deployments) == 0 {
		fmt.Fprintf(r.out, "No deployments found on %s\n", result.Network)
		return nil
	}

	fmt.Fprintf(r.out, "%s %s\n\n", familyHeader.Sprintf(" %s ", strings.ToUpper(result.Network)),
		labelStyle.Sprintf("%d deployments", result.Summary.Total))

	rows := lo.Map(result.Deployments, func(entry usecase.DeploymentEntry, _ int) []string {
		return []string{
			nameStyle.Sprint(entry.Name),
			entry.Record.Contract,
			addressStyle.Sprint(entry.Record.Address.String()),
			entry.Record.ClassHash.String(),
		}
	})
	fmt.Fprintln(r.out, renderTable([]string{"Name", "Contract", "Address", "Class hash"}, rows))

	return nil
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
