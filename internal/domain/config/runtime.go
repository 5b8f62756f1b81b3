package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Namespace string   // Deployment namespace, also selects account roles
	Network   *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
	ConfirmTimeout time.Duration

	// Deploy command settings
	DryRun bool
	Reset  bool // Ignore existing deployments when deciding to reuse

	// Resolved configurations
	FoundryConfig *FoundryConfig
	Project       *ProjectConfig
	Accounts      *ResolvedNamespace
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
}
