package ports

import (
	"time"

	"pickup/internal/core/domain/model/pickup"
)

// PickupTokenSigner turns token claims into the opaque string handed to the buyer and back.
type PickupTokenSigner interface {
	// Sign encodes claims. A non-nil expiresAt is embedded as the token expiry.
	Sign(claims pickup.Claims, expiresAt *time.Time) (string, error)

	// Parse verifies the signature and returns the claims. Forged, malformed and expired
	// strings are reported as pickup.ErrTokenInvalidOrExpired.
	Parse(opaque string) (pickup.Claims, error)
}
