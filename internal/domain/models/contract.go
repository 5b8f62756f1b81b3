package models

import (
	"encoding/json"
	"strings"
)

// Contract represents a compiled contract discovered in the build output
type Contract struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"` // source path, e.g. "src/Liquidator.sol"
	ArtifactPath string    `json:"artifactPath,omitempty"`
	Artifact     *Artifact `json:"artifact,omitempty"`
}

// FullyQualifiedName returns "path:name"
func (c *Contract) FullyQualifiedName() string {
	return c.Path + ":" + c.Name
}

// BytecodeObject represents bytecode information in a Foundry artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	SourceMap      string         `json:"sourceMap"`
	LinkReferences map[string]any `json:"linkReferences"`
}

// NeedsLinking reports whether the bytecode still has library placeholders
func (b BytecodeObject) NeedsLinking() bool {
	return len(b.LinkReferences) > 0 || strings.Contains(b.Object, "__$")
}

// Artifact represents a Foundry compilation artifact
type Artifact struct {
	ABI               json.RawMessage   `json:"abi"`
	Bytecode          BytecodeObject    `json:"bytecode"`
	DeployedBytecode  BytecodeObject    `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
	Metadata          ArtifactMetadata  `json:"metadata"`
}

// ArtifactMetadata represents the metadata section of a Foundry artifact
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string `json:"language"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}
