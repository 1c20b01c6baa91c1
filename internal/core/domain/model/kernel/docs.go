// Package kernel provides the shared primitives of the ordering domain.
//
// The package includes:
//   - UUID: the identifier value object used by every aggregate
//   - Principal: the authenticated caller (customer, admin or the system worker)
//
// These values are immutable and safe for concurrent use.
package kernel
