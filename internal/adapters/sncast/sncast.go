package sncast

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/NethermindEth/juno/core/felt"
	"github.com/creack/pty"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

const defaultBinary = "sncast"

// Runner executes sncast and returns its combined output
type Runner func(ctx context.Context, dir string, args []string) ([]byte, error)

// SncastAdapter submits transactions from the deployer account through the sncast CLI.
// The network name is used as the sncast profile in snfoundry.toml.
type SncastAdapter struct {
	log          *slog.Logger
	binary       string
	contractsDir string
	profile      string
	debug        bool
	run          Runner
}

// NewSncastAdapter creates a new sncast submitter for the selected network
func NewSncastAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *SncastAdapter {
	a := &SncastAdapter{
		log:          log.With("component", "SncastAdapter"),
		binary:       cfg.SncastPath,
		contractsDir: cfg.ContractsDir,
		debug:        cfg.Debug,
	}
	if a.binary == "" {
		a.binary = defaultBinary
	}
	if cfg.Network != nil {
		a.profile = cfg.Network.Name
	}
	a.run = a.exec
	return a
}

// WithRunner replaces the process runner
func (a *SncastAdapter) WithRunner(run Runner) *SncastAdapter {
	a.run = run
	return a
}

// Declare runs `sncast declare` for the contract
func (a *SncastAdapter) Declare(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error) {
	args := a.baseArgs()
	args = append(args, "declare", "--contract-name", contract.Name)
	args = append(args, txArgs(opts)...)

	return a.submit(ctx, "declare", args)
}

// Execute runs the calls as one `sncast multicall run` transaction
func (a *SncastAdapter) Execute(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error) {
	dir, err := os.MkdirTemp("", "sndeploy-multicall-")
	if err != nil {
		return nil, fmt.Errorf("failed to create multicall directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "multicall.toml")
	if err := WriteMulticallFile(path, calls); err != nil {
		return nil, err
	}

	args := a.baseArgs()
	args = append(args, "multicall", "run", "--path", path)
	args = append(args, txArgs(opts)...)

	return a.submit(ctx, "multicall run", args)
}

func (a *SncastAdapter) baseArgs() []string {
	args := []string{}
	if a.profile != "" {
		args = append(args, "--profile", a.profile)
	}
	return append(args, "--json")
}

// txArgs maps the fee token and transaction version to sncast flags.
// sncast takes the version as v1/v2/v3, the same spelling as TxVersion.
func txArgs(opts models.TxOptions) []string {
	var args []string
	if opts.FeeToken != "" {
		args = append(args, "--fee-token", string(opts.FeeToken))
	}
	if opts.Version != "" {
		args = append(args, "--version", string(opts.Version))
	}
	return args
}

func (a *SncastAdapter) submit(ctx context.Context, command string, args []string) (*models.TransactionResult, error) {
	start := time.Now()
	a.log.Debug("running sncast", "args", args, "dir", a.contractsDir)

	output, runErr := a.run(ctx, a.contractsDir, args)
	a.log.Debug("sncast finished", "command", command, "duration", time.Since(start))

	result, parseErr := ParseOutput(output)
	if runErr != nil {
		if parseErr == nil && result.Error != "" {
			return nil, fmt.Errorf("sncast %s failed: %s", command, result.Error)
		}
		return nil, fmt.Errorf("sncast %s failed: %w\nOutput: %s", command, runErr, strings.TrimSpace(string(output)))
	}
	if parseErr != nil {
		return nil, fmt.Errorf("sncast %s: %w", command, parseErr)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("sncast %s failed: %s", command, result.Error)
	}
	if result.TransactionHash == nil {
		return nil, fmt.Errorf("sncast %s returned no transaction hash\nOutput: %s", command, strings.TrimSpace(string(output)))
	}

	return &models.TransactionResult{TransactionHash: result.TransactionHash}, nil
}

// exec runs sncast. In debug mode the output is streamed to stdout through a pty.
func (a *SncastAdapter) exec(ctx context.Context, dir string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, a.binary, args...)
	cmd.Dir = dir

	if !a.debug {
		return cmd.CombinedOutput()
	}

	// Start with PTY for proper color handling
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var output bytes.Buffer
	_, _ = io.Copy(io.MultiWriter(os.Stdout, &output), ptyFile)

	return output.Bytes(), cmd.Wait()
}

// Output is the JSON document printed by sncast --json
type Output struct {
	Command         string     `json:"command"`
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash"`
	Error           string     `json:"error"`
}

// ParseOutput extracts the result from sncast --json output. Non-JSON lines such
// as warnings are skipped; the last JSON object wins.
func ParseOutput(output []byte) (*Output, error) {
	var result *Output

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var out Output
		if err := json.Unmarshal([]byte(line), &out); err != nil {
			continue
		}
		result = &out
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sncast output: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("no JSON result in sncast output")
	}
	return result, nil
}

type multicallFile struct {
	Calls []multicallCall `toml:"call"`
}

type multicallCall struct {
	CallType        string   `toml:"call_type"`
	ContractAddress string   `toml:"contract_address"`
	Function        string   `toml:"function"`
	Inputs          []string `toml:"inputs"`
}

// WriteMulticallFile writes calls in the sncast multicall TOML format
func WriteMulticallFile(path string, calls []starknet.FunctionCall) error {
	file := multicallFile{
		Calls: lo.Map(calls, func(c starknet.FunctionCall, _ int) multicallCall {
			return multicallCall{
				CallType:        "invoke",
				ContractAddress: c.ContractAddress.String(),
				Function:        c.EntryPoint,
				Inputs: lo.Map(c.Calldata, func(f *felt.Felt, _ int) string {
					return f.String()
				}),
			}
		}),
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create multicall file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(file); err != nil {
		return fmt.Errorf("failed to encode multicall file: %w", err)
	}
	return nil
}

var _ blockchain.Submitter = (*SncastAdapter)(nil)
