package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/fatih/color"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{
		out: out,
	}
}

// RenderDeployment renders detailed deployment information
func (r *DeploymentRenderer) RenderDeployment(deployment *models.Deployment) error {
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment: %s\n", deployment.ID)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Contract: %s\n", color.New(color.FgYellow).Sprint(deployment.ContractName))
	fmt.Fprintf(r.out, "  Address: %s\n", deployment.Address)
	fmt.Fprintf(r.out, "  Source: %s\n", deployment.Source)
	fmt.Fprintf(r.out, "  Namespace: %s\n", deployment.Namespace)
	fmt.Fprintf(r.out, "  Chain ID: %d\n", deployment.ChainID)

	if !deployment.IsRegistered() {
		fmt.Fprintln(r.out, "\nCreation:")
		fmt.Fprintf(r.out, "  Deployer: %s\n", deployment.Deployer)
		if deployment.TransactionHash != "" {
			fmt.Fprintf(r.out, "  Transaction: %s\n", deployment.TransactionHash)
		}
		if deployment.BlockNumber > 0 {
			fmt.Fprintf(r.out, "  Block: %d\n", deployment.BlockNumber)
		}
		if deployment.GasUsed > 0 {
			fmt.Fprintf(r.out, "  Gas Used: %d\n", deployment.GasUsed)
		}
		if len(deployment.Args) > 0 {
			fmt.Fprintln(r.out, "  Constructor Arguments:")
			for i, arg := range deployment.Args {
				fmt.Fprintf(r.out, "    %d. %s\n", i, arg)
			}
		}
	}

	if deployment.Artifact.Path != "" {
		fmt.Fprintln(r.out, "\nArtifact Information:")
		fmt.Fprintf(r.out, "  Path: %s\n", deployment.Artifact.Path)
		if deployment.Artifact.CompilerVersion != "" {
			fmt.Fprintf(r.out, "  Compiler: %s\n", deployment.Artifact.CompilerVersion)
		}
		if deployment.Artifact.BytecodeHash != "" {
			fmt.Fprintf(r.out, "  Bytecode Hash: %s\n", deployment.Artifact.BytecodeHash)
		}
	}

	if len(deployment.Tags) > 0 {
		fmt.Fprintln(r.out, "\nTags:")
		for _, tag := range deployment.Tags {
			fmt.Fprintf(r.out, "  - %s\n", tag)
		}
	}

	fmt.Fprintln(r.out, "\nTimestamps:")
	fmt.Fprintf(r.out, "  Created: %s\n", deployment.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "  Updated: %s\n", deployment.UpdatedAt.Format("2006-01-02 15:04:05"))

	return nil
}
