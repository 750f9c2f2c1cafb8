// Package services provides domain services that coordinate more than one aggregate of
// the pickup domain.
//
// The package includes:
//   - PickupRedeemer: applies a verified pickup token to its order, consuming the token,
//     moving the order to PICKED_UP and producing the pickup confirmation together
//
// Domain services are pure: they neither load nor store anything. Callers pass aggregates
// read inside their transaction and persist the results.
package services
