package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// PlanParser loads deployment plans from YAML files
type PlanParser struct {
	log *slog.Logger
}

// NewPlanParser creates a new plan parser
func NewPlanParser(log *slog.Logger) *PlanParser {
	return &PlanParser{log: log.With("component", "PlanParser")}
}

// DefaultPlan is used when the project has no plan file
func DefaultPlan() *models.DeploymentPlan {
	return &models.DeploymentPlan{
		Families: []*models.Family{
			{
				Name: "app",
				Contracts: []*models.ContractSpec{
					{Contract: "YourContract", ConstructorArgs: []string{usecase.DeployerPlaceholder}},
				},
			},
			{
				Name: "referral",
				Contracts: []*models.ContractSpec{
					{Contract: "ReferralContract"},
				},
			},
		},
	}
}

// Load parses the plan at path. A missing file falls back to DefaultPlan unless
// the path is required.
func (p *PlanParser) Load(ctx context.Context, path string, required bool) (*models.DeploymentPlan, error) {
	if path == "" {
		if required {
			return nil, fmt.Errorf("plan file: %w", domain.ErrInvalidArgument)
		}
		p.log.Debug("no plan file configured, using default plan")
		return DefaultPlan(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if os.IsNotExist(err) && required {
		return nil, fmt.Errorf("plan file %s: %w", absPath, domain.ErrNotFound)
	}
	if os.IsNotExist(err) {
		p.log.Debug("plan file not found, using default plan", "path", absPath)
		return DefaultPlan(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	return plan, nil
}

// Parse parses a deployment plan from YAML data
func (p *PlanParser) Parse(data []byte) (*models.DeploymentPlan, error) {
	var plan models.DeploymentPlan

	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deployment plan: %w", err)
	}

	return &plan, nil
}

var _ usecase.PlanLoader = (*PlanParser)(nil)
