// Package validation implements the dependency validator: given an operation
// and mode, it computes the required environment keys, checks their presence
// in the environment source, and aggregates every missing key into a single
// error before anything runs.
//
// All functions are pure against the Source port (no I/O of their own, no
// side effects).
//
// # Functions
//
//   - Validate: Check required keys and collect raw inputs for resolution
//   - Recheck: Verify after resolution that every required key converged
//   - RequiredKeys: The global ∪ mode-specific key set of one operation
//   - Universe: Every key any operation or mode ever references
//
// # Usage
//
// The engine validates before seeding the runtime context, so configuration
// errors surface before any external effect:
//
//	inputs, err := validation.Validate(source, "production", domain.OperationPush, domain.ModeDatabase)
//	if err != nil {
//	    // One aggregated error naming every missing key
//	}
package validation
