package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
)

// ProjectFile is the name of the project configuration file
const ProjectFile = "liqdeploy.toml"

// loadProjectConfig loads and parses liqdeploy.toml with [accounts.*] and [namespace.*] sections.
// Returns an empty config if the file doesn't exist.
func loadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	cfg := &config.ProjectConfig{
		Accounts:  make(map[string]config.AccountConfig),
		Namespace: make(map[string]config.NamespaceRoles),
	}

	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	if cfg.Accounts == nil {
		cfg.Accounts = make(map[string]config.AccountConfig)
	}
	if cfg.Namespace == nil {
		cfg.Namespace = make(map[string]config.NamespaceRoles)
	}

	// Expand environment variables in all account config string fields
	for name, acct := range cfg.Accounts {
		acct.PrivateKey = os.ExpandEnv(acct.PrivateKey)
		acct.Address = os.ExpandEnv(acct.Address)
		if acct.Type == "" {
			return nil, fmt.Errorf("account %q: type is required", name)
		}
		cfg.Accounts[name] = acct
	}

	return cfg, nil
}

// ResolveNamespace resolves a namespace's role mappings by walking up the
// dot-separated hierarchy and overlaying roles at each level.
// For example, resolving "production.optimism" walks: default → production → production.optimism.
// Roles that reference unknown accounts are skipped with a warning to warnWriter.
// Pass nil for warnWriter to use os.Stderr.
func ResolveNamespace(cfg *config.ProjectConfig, namespaceName string, warnWriter ...io.Writer) *config.ResolvedNamespace {
	w := resolveWarnWriter(warnWriter)

	roles := make(map[string]string)
	for _, ancestor := range buildNamespaceChain(namespaceName) {
		ns, exists := cfg.Namespace[ancestor]
		if !exists {
			continue
		}
		for role, account := range ns.Roles {
			roles[role] = account
		}
	}

	accounts := make(map[string]config.AccountConfig, len(roles))
	names := make(map[string]string, len(roles))
	for role, accountName := range roles {
		acct, exists := cfg.Accounts[accountName]
		if !exists {
			fmt.Fprintf(w, "Warning: namespace %q role %q references unknown account %q, skipping\n", namespaceName, role, accountName)
			continue
		}
		accounts[role] = acct
		names[role] = accountName
	}

	return &config.ResolvedNamespace{
		Name:         namespaceName,
		Accounts:     accounts,
		AccountNames: names,
	}
}

// resolveWarnWriter returns the first writer from the variadic args, or os.Stderr if none provided.
func resolveWarnWriter(writers []io.Writer) io.Writer {
	if len(writers) > 0 && writers[0] != nil {
		return writers[0]
	}
	return os.Stderr
}

// buildNamespaceChain returns the ordered list of namespace names to resolve,
// starting from "default" and adding each dot-separated prefix.
// For "production.optimism" it returns: ["default", "production", "production.optimism"]
func buildNamespaceChain(namespaceName string) []string {
	if namespaceName == "default" || namespaceName == "" {
		return []string{"default"}
	}

	chain := []string{"default"}
	parts := strings.Split(namespaceName, ".")
	for i := range parts {
		chain = append(chain, strings.Join(parts[:i+1], "."))
	}
	return chain
}
