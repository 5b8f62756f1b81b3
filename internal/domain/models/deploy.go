package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// DeployOptions are the recognized options of a deployment request
type DeployOptions struct {
	// Args are the constructor arguments, in constructor order
	Args []any
	// From is the account that signs and pays for the deployment
	From common.Address
	// Log asks the deployer to report what it deployed
	Log bool
}

// DeployRequest is one call made to a Deployer
type DeployRequest struct {
	ContractName string
	Options      DeployOptions
}

// DeployResult describes the outcome of a deployment request
type DeployResult struct {
	Deployment *Deployment
	// Reused is true when an existing deployment satisfied the request
	Reused bool
	// DryRun is true when nothing was sent to the chain
	DryRun bool
}
