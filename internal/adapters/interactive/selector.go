package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// ConfirmFunc asks a yes/no question
type ConfirmFunc func(label string) (bool, error)

// SelectFunc picks one of items and returns its index
type SelectFunc func(label string, items []string) (int, error)

// SelectorAdapter handles interactive confirmation and selection
type SelectorAdapter struct {
	config  *config.RuntimeConfig
	confirm ConfirmFunc
	selectF SelectFunc
}

// NewSelectorAdapter creates a new selector adapter backed by promptui
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{
		config:  cfg,
		confirm: promptConfirm,
		selectF: promptSelect,
	}
}

// WithPrompts replaces the terminal prompts
func (s *SelectorAdapter) WithPrompts(confirm ConfirmFunc, selectF SelectFunc) *SelectorAdapter {
	if confirm != nil {
		s.confirm = confirm
	}
	if selectF != nil {
		s.selectF = selectF
	}
	return s
}

// Confirm asks the user to approve an action. Non-interactive runs never prompt.
func (s *SelectorAdapter) Confirm(ctx context.Context, label string) (bool, error) {
	if s.config.NonInteractive {
		return false, fmt.Errorf("confirmation not available in non-interactive mode")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.confirm(label)
}

// SelectNetwork lets the user pick a network when none was given
func (s *SelectorAdapter) SelectNetwork(ctx context.Context, networks []string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(networks) == 0 {
		return "", fmt.Errorf("no networks configured in snfoundry.toml")
	}
	if len(networks) == 1 {
		return networks[0], nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	index, err := s.selectF("Select network", networks)
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return networks[index], nil
}

// promptConfirm treats "n" and an empty answer as a refusal and Ctrl-C as an error
func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
}

func promptSelect(label string, items []string) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  createFuzzySearchFunc(items),
	}

	index, _, err := prompt.Run()
	return index, err
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.Confirmer = (*SelectorAdapter)(nil)
