package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/samber/lo"
)

// Repository indexes the Foundry artifacts of the project
type Repository struct {
	projectRoot   string
	outDir        string
	contracts     map[string]*models.Contract   // key: "path:contractName"
	contractNames map[string][]*models.Contract // key: contract name, value: all contracts with that name
	log           *slog.Logger
	mu            sync.RWMutex
	indexed       bool
}

// NewRepository creates a new contract repository reading artifacts from outDir
func NewRepository(projectRoot, outDir string, log *slog.Logger) *Repository {
	return &Repository{
		projectRoot:   projectRoot,
		outDir:        outDir,
		log:           log.With("component", "ContractRepository"),
		contracts:     make(map[string]*models.Contract),
		contractNames: make(map[string][]*models.Contract),
	}
}

// ProvideRepository creates the repository for the configured Foundry project
func ProvideRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	outDir := "out"
	if cfg.FoundryConfig != nil {
		outDir = cfg.FoundryConfig.OutDir()
	}
	return NewRepository(cfg.ProjectRoot, outDir, log)
}

// Index discovers all artifacts once
func (i *Repository) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.indexed {
		return nil
	}

	i.contracts = make(map[string]*models.Contract)
	i.contractNames = make(map[string][]*models.Contract)

	outDir := i.outDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(i.projectRoot, outDir)
	}
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		return fmt.Errorf("artifacts directory %s not found, run forge build first", outDir)
	}

	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}
		return i.processArtifact(path)
	})
	if err != nil {
		return err
	}

	i.indexed = true
	return nil
}

// processArtifact processes a single artifact file
func (i *Repository) processArtifact(artifactPath string) error {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		// Skip invalid artifacts
		i.log.Debug("skipping unreadable artifact", "path", artifactPath, "error", err)
		return nil
	}

	// Interfaces and abstract contracts have no creation code
	if artifact.Bytecode.Object == "" || artifact.Bytecode.Object == "0x" {
		return nil
	}

	// There should only be one compilation target
	var contractName, sourceName string
	for source, contract := range artifact.Metadata.Settings.CompilationTarget {
		sourceName = source
		contractName = contract
	}
	if contractName == "" || sourceName == "" {
		return nil
	}

	relArtifactPath, err := filepath.Rel(i.projectRoot, artifactPath)
	if err != nil {
		relArtifactPath = artifactPath
	}

	info := &models.Contract{
		Name:         contractName,
		Path:         sourceName,
		ArtifactPath: relArtifactPath,
		Artifact:     &artifact,
	}

	i.contracts[info.FullyQualifiedName()] = info
	i.contractNames[info.Name] = append(i.contractNames[info.Name], info)
	i.log.Debug("indexed artifact", "contract", info.FullyQualifiedName(), "path", relArtifactPath)

	return nil
}

// GetContract retrieves a contract by name or "path:name"
func (i *Repository) GetContract(ctx context.Context, key string) (*models.Contract, error) {
	if err := i.Index(); err != nil {
		return nil, err
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	if contract, exists := i.contracts[key]; exists {
		return contract, nil
	}

	matches := i.contractNames[key]
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, key)
	case 1:
		return matches[0], nil
	default:
		names := lo.Map(matches, func(c *models.Contract, _ int) string { return c.FullyQualifiedName() })
		sort.Strings(names)
		return nil, fmt.Errorf("multiple contracts named %s, use one of: %s", key, strings.Join(names, ", "))
	}
}

// ListContracts returns every indexed contract ordered by fully qualified name
func (i *Repository) ListContracts(ctx context.Context) []*models.Contract {
	if err := i.Index(); err != nil {
		i.log.Warn("failed to index contracts", "error", err)
		return nil
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	keys := lo.Keys(i.contracts)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) *models.Contract { return i.contracts[k] })
}

// Ensure the adapter implements the interface
var _ usecase.ContractRepository = (*Repository)(nil)
