// Package ownership centralizes the owner check applied before any
// mutation of user-owned resources.
package ownership

import (
	"errors"

	"github.com/gofrs/uuid"
)

// ErrNotOwner is returned when the acting user does not own the resource.
var ErrNotOwner = errors.New("user does not own this resource")

// CheckOwner verifies that actorID owns the resource held by ownerID.
// The check is strict equality; there is no admin bypass here.
func CheckOwner(ownerID, actorID uuid.UUID) error {
	if ownerID != actorID {
		return ErrNotOwner
	}
	return nil
}
