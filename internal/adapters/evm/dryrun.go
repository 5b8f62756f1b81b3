package evm

import (
	"context"
	"fmt"
	"strings"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

// DryRunDeployer resolves and encodes requests like Deployer but sends nothing
type DryRunDeployer struct {
	deployer *Deployer
}

// NewDryRunDeployer creates a dry-run deployer sharing d's artifacts and registry
func NewDryRunDeployer(d *Deployer) *DryRunDeployer {
	return &DryRunDeployer{deployer: d}
}

// Deploy reports what would be deployed. The returned record is not saved
// and has no address.
func (d *DryRunDeployer) Deploy(ctx context.Context, name string, opts models.DeployOptions) (*models.DeployResult, error) {
	p, err := d.deployer.prepare(ctx, name, opts)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: name, Err: err}
	}

	existing, err := d.deployer.findReusable(ctx, name, p)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: name, Err: err}
	}
	if existing != nil {
		d.deployer.sink.Info(fmt.Sprintf("[dry-run] would reuse %q at %s", name, existing.Address))
		return &models.DeployResult{Deployment: existing, Reused: true, DryRun: true}, nil
	}

	record := d.deployer.record(name, opts, p)
	d.deployer.sink.Info(fmt.Sprintf("[dry-run] would deploy %q from %s with args [%s]",
		name, record.Deployer, strings.Join(record.Args, ", ")))
	return &models.DeployResult{Deployment: record, DryRun: true}, nil
}

// Ensure the deployer implements the interface
var _ usecase.Deployer = (*DryRunDeployer)(nil)
