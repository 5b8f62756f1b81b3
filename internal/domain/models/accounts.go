package models

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/exactly/liquidator-deploy/internal/domain"
)

// NamedAccounts maps a role (deployer, owner, ...) to an address
type NamedAccounts map[string]common.Address

// Require returns the address for role or a MissingAccountError
func (n NamedAccounts) Require(role string) (common.Address, error) {
	addr, ok := n[role]
	if !ok {
		return common.Address{}, &domain.MissingAccountError{Role: role}
	}
	return addr, nil
}

// Roles returns the configured role names, sorted
func (n NamedAccounts) Roles() []string {
	roles := make([]string, 0, len(n))
	for role := range n {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
