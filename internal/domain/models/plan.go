package models

import "fmt"

// DeploymentPlan lists contract families in deployment order
type DeploymentPlan struct {
	Families []*Family `yaml:"families"`
}

// Family is a group of contracts deployed in one batch and exported together
type Family struct {
	Name      string          `yaml:"name"`
	Contracts []*ContractSpec `yaml:"contracts"`
}

// ContractSpec describes one deployment inside a family
type ContractSpec struct {
	// Contract is the compiled contract name used to locate artifacts
	Contract string `yaml:"contract"`
	// Name is the logical name written to the ledger, defaults to Contract
	Name string `yaml:"name,omitempty"`
	// ConstructorArgs are felt literals, "$deployer" or "str:<short string>"
	ConstructorArgs []string `yaml:"constructor_args,omitempty"`
	// Salt is optional, a random salt is used when empty
	Salt string `yaml:"salt,omitempty"`
	// Unique mirrors the UDC unique flag, defaults to true
	Unique *bool `yaml:"unique,omitempty"`
}

// LogicalName returns the ledger key for this contract
func (c *ContractSpec) LogicalName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Contract
}

// IsUnique returns the effective UDC unique flag
func (c *ContractSpec) IsUnique() bool {
	return c.Unique == nil || *c.Unique
}

// Validate checks the plan for structural errors
func (p *DeploymentPlan) Validate() error {
	if len(p.Families) == 0 {
		return fmt.Errorf("at least one family is required")
	}

	seen := make(map[string]bool)
	for i, family := range p.Families {
		if family.Name == "" {
			return fmt.Errorf("family %d must have a name", i+1)
		}
		if seen[family.Name] {
			return fmt.Errorf("family '%s' is defined more than once", family.Name)
		}
		seen[family.Name] = true

		if len(family.Contracts) == 0 {
			return fmt.Errorf("family '%s' must contain at least one contract", family.Name)
		}
		for j, contract := range family.Contracts {
			if contract.Contract == "" {
				return fmt.Errorf("contract %d of family '%s' must specify a contract", j+1, family.Name)
			}
		}
	}

	return nil
}
