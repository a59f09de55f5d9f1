// Package errs provides standardized error types for the post tracking service.
// Every type follows the same shape: a sentinel error variable, a struct with the
// details, constructors with and without a cause, Error() and Unwrap().
//
// The types map onto the service's error taxonomy:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: bad input,
//     never retried
//   - ObjectNotFoundError: unknown id or tracking code
//   - ConflictError, VersionIsInvalidError: the request is illegal for the
//     current state of the object (forbidden transition, stale version)
//   - DependencyIsUnavailableError: store, cache, broker or address lookup failed
//
// Callers classify errors with errors.Is against the sentinels.
package errs
