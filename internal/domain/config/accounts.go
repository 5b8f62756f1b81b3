package config

// AccountType is the kind of key material behind a named account
type AccountType string

var (
	AccountTypePrivateKey AccountType = "private_key"
	AccountTypeAddress    AccountType = "address"
)

// AccountConfig represents a named signing entity in [accounts.*] sections.
type AccountConfig struct {
	Type       AccountType `toml:"type"`
	Address    string      `toml:"address,omitempty"`
	PrivateKey string      `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}

// NamespaceRoles represents a [namespace.*] section in liqdeploy.toml.
// Roles maps role names (deployer, owner) to account names.
type NamespaceRoles struct {
	Roles map[string]string `toml:"roles"`
}

// ProjectConfig represents the liqdeploy.toml file with accounts and namespaces.
type ProjectConfig struct {
	Accounts  map[string]AccountConfig  `toml:"accounts"`
	Namespace map[string]NamespaceRoles `toml:"namespace"`
}

// ResolvedNamespace holds the role→account mapping of a namespace
// after walking the dot-based hierarchy.
type ResolvedNamespace struct {
	Name         string
	Accounts     map[string]AccountConfig // role name → resolved AccountConfig
	AccountNames map[string]string        // role name → account name in liqdeploy.toml
}
