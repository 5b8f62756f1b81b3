package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when network configurations don't match
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrContractNotFound is returned when no compiled artifact exists for a contract
	ErrContractNotFound = errors.New("contract not found")

	// ErrMissingAccount is returned when a required named account is not configured
	ErrMissingAccount = errors.New("missing named account")

	// ErrMissingArtifact is returned when a prerequisite deployment is not in the registry
	ErrMissingArtifact = errors.New("missing deployment artifact")

	// ErrDeploymentFailed is returned when a contract-creation transaction fails
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrDependencyCycle is returned when step dependencies form a cycle
	ErrDependencyCycle = errors.New("dependency cycle")
)

// MissingAccountError reports a role absent from the named-account set.
type MissingAccountError struct {
	Role string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("named account %q is not configured", e.Role)
}

func (e *MissingAccountError) Unwrap() error {
	return ErrMissingAccount
}

// MissingArtifactError reports a deployment that could not be found in the registry.
type MissingArtifactError struct {
	Name      string
	Namespace string
	ChainID   uint64
}

func (e *MissingArtifactError) Error() string {
	if e.Namespace == "" && e.ChainID == 0 {
		return fmt.Sprintf("no deployment found for %q", e.Name)
	}
	return fmt.Sprintf("no deployment found for %q in %s/%d", e.Name, e.Namespace, e.ChainID)
}

func (e *MissingArtifactError) Unwrap() error {
	return ErrMissingArtifact
}

// DeploymentError wraps any failure that happened while creating a contract.
type DeploymentError struct {
	Contract string
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("failed to deploy %s: %v", e.Contract, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *DeploymentError) Unwrap() []error {
	return []error{ErrDeploymentFailed, e.Err}
}

type AmbiguousDeploymentErr struct {
	Reference string
	Matches   []string
}

func (e AmbiguousDeploymentErr) Error() string {
	return fmt.Sprintf("multiple deployments found matching %q: %v", e.Reference, e.Matches)
}
