package ports

// APIServer defines the lifecycle of the network-facing request boundary
type APIServer interface {
	// Start starts serving requests
	Start() error

	// Stop drains and shuts the server down
	Stop() error
}
