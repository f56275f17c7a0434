// Package domain defines the core domain models for gmm7550.
//
// Domain models are pure values without any IO dependencies or
// framework coupling. This package contains:
//
//   - CfgMode: the GateMate configuration interface mode (CFG_MD pins)
//   - Errors: domain-specific error definitions
package domain
