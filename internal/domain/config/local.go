package config

import "strings"

// LocalConfig represents the local liqdeploy configuration
type LocalConfig struct {
	Namespace string `json:"namespace"`
	Network   string `json:"network"`
}

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Namespace: "default",
		Network:   "",
	}
}

// ConfigKey names a value of the local configuration
type ConfigKey string

const (
	ConfigKeyNamespace ConfigKey = "namespace"
	ConfigKeyNetwork   ConfigKey = "network"
)

// ValidConfigKeys returns the keys accepted by the config command
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{ConfigKeyNamespace, ConfigKeyNetwork}
}

// ParseConfigKey resolves a user supplied key, accepting "ns" for namespace
func ParseConfigKey(key string) (ConfigKey, bool) {
	switch strings.ToLower(key) {
	case "namespace", "ns":
		return ConfigKeyNamespace, true
	case "network":
		return ConfigKeyNetwork, true
	}
	return "", false
}
