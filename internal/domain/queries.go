package domain

// DeploymentQuery represents a query for finding deployments
type DeploymentQuery struct {
	// Reference is the deployment identifier (ID, address or contract name)
	Reference string
	// Optional: Chain ID for filtering
	ChainID uint64
	// Optional: Namespace for filtering
	Namespace string
}
