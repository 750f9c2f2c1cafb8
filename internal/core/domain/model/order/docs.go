// Package order provides the Order aggregate of the branch pickup marketplace and the
// status state machine that governs it.
//
// The package includes:
//   - Order: the aggregate root owning identity, parties, amounts and lifecycle
//   - Status: the enumerated lifecycle state with the single transition table
//   - TransitionValidator: the role, ownership and edge guard consulted before every move
//   - StatusChanged / PickupReminder: domain events handed to the notification dispatcher
//
// Lifecycle:
//
//	PENDING ──> PAYMENT_CONFIRMED ──> PREPARING ──> READY_FOR_PICKUP ──> PICKED_UP
//	   │               │                  │                │
//	   └───────────────┴──────────────────┴────────────────┴──> CANCELLED
//
// PICKED_UP and CANCELLED are terminal. Every edge can be taken at most once, so a
// repeated request (for example confirming payment twice) is an InvalidTransitionError,
// never a silent success.
package order
