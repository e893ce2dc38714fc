package policy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

// maxChainDepth bounds traversal; the hierarchy is admin -> manager -> employee.
const maxChainDepth = 3

var ErrBrokenChain = errors.New("ownership chain is inconsistent")

// UserLookup loads a user by id. It returns ErrNotFound when the user does not
// exist.
type UserLookup func(id uuid.UUID) (*models.User, error)

// ResolveCreator returns the account that provisioned user, or nil for admins.
func ResolveCreator(lookup UserLookup, user *models.User) (*models.User, error) {
	if user == nil || user.CreatedBy == nil {
		return nil, nil
	}
	creator, err := lookup(*user.CreatedBy)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve creator: %w", err)
	}
	return creator, nil
}

// ResolveOwnerChain returns the creator lineage of user, nearest first:
// for an employee that is [manager, admin].
func ResolveOwnerChain(lookup UserLookup, user *models.User) ([]*models.User, error) {
	chain := make([]*models.User, 0, maxChainDepth)
	seen := map[uuid.UUID]struct{}{user.ID: {}}

	current := user
	for i := 0; i < maxChainDepth; i++ {
		creator, err := ResolveCreator(lookup, current)
		if err != nil {
			return nil, err
		}
		if creator == nil {
			return chain, nil
		}
		if _, dup := seen[creator.ID]; dup {
			return nil, ErrBrokenChain
		}
		if expected, ok := current.Role.Superior(); !ok || creator.Role != expected {
			return nil, ErrBrokenChain
		}
		seen[creator.ID] = struct{}{}
		chain = append(chain, creator)
		current = creator
	}
	return nil, ErrBrokenChain
}

// CanViewAsSelfOrSuperior allows the subject itself or any account in the
// subject's ownership chain. Accounts of a superior role outside the chain get
// ErrNotFound; other roles get ErrForbidden.
func CanViewAsSelfOrSuperior(lookup UserLookup, actor, subject *models.User, role models.Role) error {
	if actor == nil {
		return ErrForbidden
	}
	superior, hasSuperior := role.Superior()
	if subject == nil || subject.Role != role {
		if hasSuperior && actor.Role == superior {
			return ErrNotFound
		}
		return ErrForbidden
	}
	if actor.ID == subject.ID {
		return nil
	}
	if !hasSuperior || actor.Role != superior {
		return ErrForbidden
	}

	chain, err := ResolveOwnerChain(lookup, subject)
	if err != nil {
		return err
	}
	for _, owner := range chain {
		if owner.ID == actor.ID {
			return nil
		}
	}
	return ErrNotFound
}
