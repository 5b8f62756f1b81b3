package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/samber/lo"
)

const (
	DeploymentsFile = "deployments.json"
	// AddressesFile is a flat chain -> namespace -> contract -> address view
	// for scripts that only need addresses
	AddressesFile = "registry.json"
)

// AddressBook is the content of AddressesFile
type AddressBook map[uint64]map[string]map[string]string

// lookupIndexes are rebuilt from the deployments on every load and write
type lookupIndexes struct {
	byAddress  map[uint64]map[string][]string // chainID -> lowercased address -> sorted IDs
	byContract map[string][]string             // contract name -> sorted IDs
}

// FileRepository stores the deployments in json files on the system
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
	lookups     lookupIndexes
	now         func() time.Time
}

// NewFileRepository creates a repository backed by dataDir, creating it if needed
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", dataDir, err)
	}

	m := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*models.Deployment),
		now:         time.Now,
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	return m, nil
}

// ProvideFileRepository creates the repository for the configured data directory
func ProvideFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	return NewFileRepository(cfg.DataDir)
}

// load reads the deployments file
func (m *FileRepository) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(m.dataDir, DeploymentsFile))
	if err != nil {
		if os.IsNotExist(err) {
			m.rebuildLookups()
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, &m.deployments); err != nil {
		return fmt.Errorf("failed to parse %s: %w", DeploymentsFile, err)
	}
	if m.deployments == nil {
		m.deployments = make(map[string]*models.Deployment)
	}

	m.rebuildLookups()
	return nil
}

// save writes the deployments and the address book
func (m *FileRepository) save() error {
	if err := m.saveFile(DeploymentsFile, m.deployments); err != nil {
		return fmt.Errorf("failed to save deployments: %w", err)
	}
	if err := m.saveFile(AddressesFile, m.addressBook()); err != nil {
		return fmt.Errorf("failed to save address book: %w", err)
	}
	return nil
}

// saveFile saves data to a JSON file in the data directory
func (m *FileRepository) saveFile(filename string, v any) error {
	path := filepath.Join(m.dataDir, filename)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

// rebuildLookups rebuilds all lookup indexes from the loaded data
func (m *FileRepository) rebuildLookups() {
	m.lookups.byAddress = make(map[uint64]map[string][]string)
	m.lookups.byContract = make(map[string][]string)

	for id, dep := range m.deployments {
		if m.lookups.byAddress[dep.ChainID] == nil {
			m.lookups.byAddress[dep.ChainID] = make(map[string][]string)
		}
		address := strings.ToLower(dep.Address)
		m.lookups.byAddress[dep.ChainID][address] = append(m.lookups.byAddress[dep.ChainID][address], id)
		m.lookups.byContract[dep.ContractName] = append(m.lookups.byContract[dep.ContractName], id)
	}

	for _, addresses := range m.lookups.byAddress {
		for _, ids := range addresses {
			sort.Strings(ids)
		}
	}
	for _, ids := range m.lookups.byContract {
		sort.Strings(ids)
	}
}

func (m *FileRepository) addressBook() AddressBook {
	book := make(AddressBook)
	for _, dep := range m.deployments {
		if book[dep.ChainID] == nil {
			book[dep.ChainID] = make(map[string]map[string]string)
		}
		if book[dep.ChainID][dep.Namespace] == nil {
			book[dep.ChainID][dep.Namespace] = make(map[string]string)
		}
		book[dep.ChainID][dep.Namespace][dep.ContractName] = dep.Address
	}
	return book
}

func clone(dep *models.Deployment) *models.Deployment {
	c := *dep
	c.Tags = append([]string(nil), dep.Tags...)
	c.Args = append([]string(nil), dep.Args...)
	return &c
}

// GetDeployment retrieves a deployment by ID
func (m *FileRepository) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dep, exists := m.deployments[id]
	if !exists {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	return clone(dep), nil
}

// GetDeploymentByName retrieves the deployment of a contract in a namespace and chain
func (m *FileRepository) GetDeploymentByName(ctx context.Context, namespace string, chainID uint64, contractName string) (*models.Deployment, error) {
	return m.GetDeployment(ctx, models.DeploymentID(namespace, chainID, contractName))
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address.
// An address recorded in several namespaces is an AmbiguousDeploymentErr.
func (m *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.lookups.byAddress[chainID][strings.ToLower(address)]
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("deployment at %s on chain %d: %w", address, chainID, domain.ErrNotFound)
	case 1:
		return clone(m.deployments[ids[0]]), nil
	}
	return nil, domain.AmbiguousDeploymentErr{
		Reference: address,
		Matches:   lo.Map(ids, func(id string, _ int) string { return fmt.Sprintf("%s at %s", id, m.deployments[id].Address) }),
	}
}

// ListDeployments retrieves deployments matching the filter, ordered by ID
func (m *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := lo.Keys(m.deployments)
	if filter.ContractName != "" {
		ids = append([]string(nil), m.lookups.byContract[filter.ContractName]...)
	}
	sort.Strings(ids)

	result := make([]*models.Deployment, 0, len(ids))
	for _, id := range ids {
		dep := m.deployments[id]
		if filter.Namespace != "" && dep.Namespace != filter.Namespace {
			continue
		}
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			continue
		}
		if filter.Tag != "" && !dep.HasTag(filter.Tag) {
			continue
		}
		result = append(result, clone(dep))
	}
	return result, nil
}

// SaveDeployment creates or replaces a deployment
func (m *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := clone(deployment)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}
	stored.UpdatedAt = m.now()

	previous, existed := m.deployments[stored.ID]
	m.deployments[stored.ID] = stored
	m.rebuildLookups()

	if err := m.save(); err != nil {
		// Keep memory consistent with disk
		if existed {
			m.deployments[stored.ID] = previous
		} else {
			delete(m.deployments, stored.ID)
		}
		m.rebuildLookups()
		return err
	}
	return nil
}

// DeleteDeployment removes a deployment
func (m *FileRepository) DeleteDeployment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous, exists := m.deployments[id]
	if !exists {
		return fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}

	delete(m.deployments, id)
	m.rebuildLookups()

	if err := m.save(); err != nil {
		m.deployments[id] = previous
		m.rebuildLookups()
		return err
	}
	return nil
}

// Ensure the repository implements the interface
var _ usecase.DeploymentRepository = (*FileRepository)(nil)
