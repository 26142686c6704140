package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	familyHeader  = color.New(color.BgCyan, color.FgBlack, color.Bold)
	labelStyle    = color.New(color.Faint)
	nameStyle     = color.New(color.FgGreen, color.Bold)
	addressStyle  = color.New(color.FgWhite)
	declaredStyle = color.New(color.FgYellow)
	existingStyle = color.New(color.Faint)
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out   io.Writer
	color bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, color bool) *DeployRenderer {
	return &DeployRenderer{
		out:   out,
		color: color,
	}
}

// PrintBanner prints the run settings before anything is submitted
func (r *DeployRenderer) PrintBanner(cfg *config.RuntimeConfig, feeToken string) {
	restore := r.applyColor()
	defer restore()

	if cfg.Network == nil {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Network:  "), nameStyle.Sprint(cfg.Network.Name))
	if cfg.Network.DeployerAddress != nil {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Deployer: "), cfg.Network.DeployerAddress)
	}
	if feeToken != "" {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Fee token:"), strings.ToUpper(feeToken))
	}
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Ledger:   "), ledgerModeLabel(cfg.LedgerMode))
	fmt.Fprintln(r.out)
}

// Render prints one table per family and the ledger location
func (r *DeployRenderer) Render(result *usecase.DeployContractsResult) error {
	restore := r.applyColor()
	defer restore()

	title := cases.Title(language.English)

	fmt.Fprintln(r.out)
	for _, family := range result.Families {
		fmt.Fprintln(r.out, familyHeader.Sprintf(" %s ", title.String(family.Name)))

		rows := lo.Map(family.Contracts, func(c *usecase.DeployedContract, _ int) []string {
			class := existingStyle.Sprint("existing")
			if c.Declared {
				class = declaredStyle.Sprint("declared")
			}
			return []string{
				nameStyle.Sprint(c.Name),
				c.Contract,
				c.ClassHash.String(),
				class,
				addressStyle.Sprint(c.Address.String()),
			}
		})
		fmt.Fprintln(r.out, renderTable([]string{"Name", "Contract", "Class hash", "Class", "Address"}, rows))

		for _, tx := range family.TransactionHashes {
			fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Transaction:"), tx)
		}
		fmt.Fprintln(r.out)
	}

	network := ""
	if result.Network != nil {
		network = result.Network.Name
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d deployments on %s exported to %s (%s)",
		len(result.Ledger), network, result.LedgerPath, ledgerModeLabel(result.LedgerMode))))
	return nil
}

func (r *DeployRenderer) applyColor() func() {
	previous := color.NoColor
	if !r.color {
		color.NoColor = true
	}
	return func() { color.NoColor = previous }
}

func ledgerModeLabel(mode config.LedgerMode) string {
	switch mode {
	case config.LedgerArchive:
		return "archive previous deployments"
	default:
		return "overwrite previous deployments"
	}
}

var _ Renderer[*usecase.DeployContractsResult] = (*DeployRenderer)(nil)
