// Package kernel holds the value objects shared by every aggregate of the pickup domain.
//
// The package includes:
//   - UUID: identifier of orders, products, branches and actors
//   - Money: a non-negative decimal amount used for order totals
//
// Both types are immutable. Their zero values are invalid and are rejected by Validate,
// so values must come from the provided constructors.
package kernel
