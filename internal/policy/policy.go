// Package policy decides whether an actor may perform an action on a target.
//
// Every check returns nil when the action is allowed. Denials distinguish
// ErrForbidden (the actor is acting outside its own scope, e.g. on another
// account's URL or with the wrong role) from ErrNotFound (the target is absent
// or is not part of the actor's ownership chain, so its existence is not
// revealed).
package policy

import (
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

var (
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("resource not found")
	ErrSelfTarget         = errors.New("cannot change activation of own account")
	ErrInvalidAssignee    = errors.New("can only assign tasks to your own active employees")
	ErrFieldNotPermitted  = errors.New("employees may only update the task status")
	ErrCannotProvisionFor = errors.New("role cannot provision accounts")
)

// RequireSelf enforces self-scope: the subject addressed by the request must be
// the actor, holding the given role.
func RequireSelf(actor *models.User, subjectID uuid.UUID, role models.Role) error {
	if actor == nil || actor.ID != subjectID || actor.Role != role {
		return ErrForbidden
	}
	return nil
}

// CanProvision reports whether actor may create accounts with the given role.
// Admins create managers and managers create employees.
func CanProvision(actor *models.User, role models.Role) error {
	if actor == nil {
		return ErrForbidden
	}
	sub, ok := actor.Role.Subordinate()
	if !ok {
		return ErrCannotProvisionFor
	}
	if sub != role {
		return ErrForbidden
	}
	return nil
}

// CanViewSubordinate checks that target is an account of the actor's
// subordinate role provisioned by the actor.
func CanViewSubordinate(actor, target *models.User) error {
	if actor == nil {
		return ErrForbidden
	}
	sub, ok := actor.Role.Subordinate()
	if !ok {
		return ErrForbidden
	}
	if target == nil || target.Role != sub || !target.IsCreatedBy(actor.ID) {
		return ErrNotFound
	}
	return nil
}

// CanSetActivation checks that actor is the direct creator of target and is
// not targeting itself.
func CanSetActivation(actor, target *models.User) error {
	if actor == nil {
		return ErrForbidden
	}
	if target != nil && target.ID == actor.ID {
		return ErrSelfTarget
	}
	return CanViewSubordinate(actor, target)
}

// CanManageTask checks that actor is the manager who created task.
func CanManageTask(actor *models.User, task *models.Task) error {
	if actor == nil || actor.Role != models.RoleManager {
		return ErrForbidden
	}
	if task == nil || task.CreatedBy != actor.ID {
		return ErrNotFound
	}
	return nil
}

// CanAssign checks that employee belongs to actor's created set and is active.
func CanAssign(actor, employee *models.User) error {
	if actor == nil || actor.Role != models.RoleManager {
		return ErrForbidden
	}
	if employee == nil ||
		employee.Role != models.RoleEmployee ||
		!employee.IsCreatedBy(actor.ID) ||
		!employee.IsActive {
		return ErrInvalidAssignee
	}
	return nil
}

// CanViewTask allows the creating manager and the assigned employee.
func CanViewTask(actor *models.User, task *models.Task) error {
	if actor == nil {
		return ErrForbidden
	}
	switch actor.Role {
	case models.RoleManager:
		return CanManageTask(actor, task)
	case models.RoleEmployee:
		if task == nil || !task.IsAssignedTo(actor.ID) {
			return ErrNotFound
		}
		return nil
	default:
		return ErrForbidden
	}
}

// CanUpdateTaskAsEmployee checks that the employee is the assignee and that
// only the status field is being changed.
func CanUpdateTaskAsEmployee(actor *models.User, task *models.Task, fields []string) error {
	if actor == nil || actor.Role != models.RoleEmployee {
		return ErrForbidden
	}
	for _, f := range fields {
		if f != "status" {
			return ErrFieldNotPermitted
		}
	}
	if task == nil || !task.IsAssignedTo(actor.ID) {
		return ErrNotFound
	}
	return nil
}

// CanAccessTimeLog restricts time-log rows to the employee who logged them.
func CanAccessTimeLog(actor *models.User, log *models.TimeLog) error {
	if actor == nil || actor.Role != models.RoleEmployee {
		return ErrForbidden
	}
	if log == nil || log.UserID != actor.ID {
		return ErrNotFound
	}
	return nil
}
