package app

import "errors"

// Config holds everything an App instance needs to run one circuit.
type Config struct {
	// CircuitPath points at a .json circuit document, a .hcl circuit
	// file, or a directory of .hcl files.
	CircuitPath string
	// ContextPath optionally points at a JSON chat-context document.
	ContextPath string
	// Sinks lists the requested outputs as "node.port" addresses. When
	// empty, sinks declared by the circuit file itself are used.
	Sinks []string
	// ValidateOnly checks the circuit and skips execution.
	ValidateOnly bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CircuitPath == "" {
		return nil, errors.New("CircuitPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
