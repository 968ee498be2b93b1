// Package errs provides standardized error types for the procurement application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConfigurationError: For malformed policy definitions detected at load time
//   - ConcurrentModificationError: For optimistic-guard write conflicts
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Two of these types carry specific contracts. ConfigurationError is fatal:
// the process refuses to start on a malformed rule, permission, or timeout
// definition rather than partially loading a policy set.
// ConcurrentModificationError is retry-able: the caller re-reads the entity
// and repeats the operation. Permission denials and rule violations are NOT
// errors in this application; they are structured results returned through
// the normal evaluation path.
package errs
