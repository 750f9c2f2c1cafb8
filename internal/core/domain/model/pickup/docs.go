// Package pickup models the pickup capability handed to the buyer and the confirmation
// produced when a branch admin redeems it.
//
// A Token record is bound to exactly one order and one branch. It carries a random
// single-use nonce and a consumed flag; the opaque string shown to the buyer is a signed
// encoding of Claims and is never stored. A Confirmation exists only for orders that were
// picked up and never changes after creation.
package pickup
