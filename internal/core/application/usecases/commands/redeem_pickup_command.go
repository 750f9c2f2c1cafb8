package commands

import (
	"errors"
	"strings"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var (
	ErrRedeemPickupCommandIsNotConstructed = errors.New(
		"RedeemPickupCommand must be created via NewRedeemPickupCommand constructor",
	)
)

// RedeemPickupCommand is a branch admin scanning the pickup token shown by a buyer.
type RedeemPickupCommand struct { //nolint:recvcheck //using for validation
	token string
	admin actor.Actor

	guard guard.ConstructorGuard
}

// NewRedeemPickupCommand creates a redemption request for token scanned by admin.
func NewRedeemPickupCommand(token string, admin actor.Actor) (RedeemPickupCommand, error) {
	cmd := RedeemPickupCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setToken(token),
		cmd.setAdmin(admin),
	); err != nil {
		return RedeemPickupCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RedeemPickupCommand) Validate() error {
	return c.guard.Validate(ErrRedeemPickupCommandIsNotConstructed)
}

// Token returns the opaque token string as scanned.
func (c RedeemPickupCommand) Token() string {
	return c.token
}

// Admin returns the scanning actor.
func (c RedeemPickupCommand) Admin() actor.Actor {
	return c.admin
}

func (c *RedeemPickupCommand) setToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errs.NewValueIsRequiredError("token")
	}
	c.token = token
	return nil
}

func (c *RedeemPickupCommand) setAdmin(admin actor.Actor) error {
	if err := admin.Validate(); err != nil {
		return err
	}
	c.admin = admin
	return nil
}
