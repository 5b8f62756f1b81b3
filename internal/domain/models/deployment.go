package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentSource tells how a record entered the registry
type DeploymentSource string

const (
	// SourceDeployed records are contracts created by a deployment step
	SourceDeployed DeploymentSource = "DEPLOYED"
	// SourceRegistered records are contracts deployed elsewhere and imported by address
	SourceRegistered DeploymentSource = "REGISTERED"
)

// Deployment represents a contract deployment record
type Deployment struct {
	// Core identification
	ID           string           `json:"id"`        // e.g., "default/10/Liquidator"
	Namespace    string           `json:"namespace"` // e.g., "default", "production"
	ChainID      uint64           `json:"chainId"`
	ContractName string           `json:"contractName"` // e.g., "Liquidator"
	Address      string           `json:"address"`
	Source       DeploymentSource `json:"source"`

	// Creation details, empty for registered records
	Deployer        string   `json:"deployer,omitempty"`
	ConstructorArgs string   `json:"constructorArgs,omitempty"` // ABI-encoded, hex
	Args            []string `json:"args,omitempty"`            // human-readable constructor args
	TransactionHash string   `json:"transactionHash,omitempty"`
	BlockNumber     uint64   `json:"blockNumber,omitempty"`
	GasUsed         uint64   `json:"gasUsed,omitempty"`

	// Contract artifact information
	Artifact ArtifactInfo `json:"artifact"`

	// Metadata
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	Path            string `json:"path,omitempty"`            // e.g., "src/Liquidator.sol:Liquidator"
	CompilerVersion string `json:"compilerVersion,omitempty"` // e.g., "0.8.23"
	BytecodeHash    string `json:"bytecodeHash,omitempty"`    // keccak256 of creation bytecode
}

// DeploymentID builds the registry key of a contract in a namespace and chain
func DeploymentID(namespace string, chainID uint64, contractName string) string {
	return fmt.Sprintf("%s/%d/%s", namespace, chainID, contractName)
}

// HasTag reports whether the deployment carries the given tag
func (d *Deployment) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ContractAddress returns the recorded address
func (d *Deployment) ContractAddress() common.Address {
	return common.HexToAddress(d.Address)
}

// IsRegistered returns true when the record was imported rather than deployed
func (d *Deployment) IsRegistered() bool {
	return d.Source == SourceRegistered
}
