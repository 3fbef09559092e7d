// Package errors provides structured error types for better observability
// and programmatic error handling across rig.
//
// Fatal conditions (configuration) and per-item conditions (unresolved
// textures, unknown variable scopes) share one classification so the
// generation report can group them by code.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSync,
//	    "failed to push learned textures",
//	    cause,
//	    map[string]any{
//	        "remote": url,
//	        "branch": branch,
//	    },
//	)
package errors
