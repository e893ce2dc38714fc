package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/policy"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already exists")
	ErrInvalidUsername   = errors.New("username must be 3 to 150 characters")
	ErrInvalidEmail      = errors.New("email address is invalid")
	ErrInvalidFullName   = errors.New("full name must be at most 255 characters")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrAlreadyInState    = errors.New("account is already in the requested state")
	ErrAdminExists       = errors.New("an admin account already exists")
)

var validate = validator.New()

// UserService handles account provisioning, profiles and activation.
type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// Lookup adapts the repository for ownership-chain traversal.
func (s *UserService) Lookup() policy.UserLookup {
	return func(id uuid.UUID) (*models.User, error) {
		user, err := s.userRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, policy.ErrNotFound
			}
			return nil, storeError(s.log, "find user", err)
		}
		return user, nil
	}
}

// CreateUserInput represents the account to provision.
type CreateUserInput struct {
	Username string  `validate:"required,min=3,max=150"`
	Email    string  `validate:"required,email,max=255"`
	Password string  `validate:"required"`
	FullName *string `validate:"omitempty,max=255"`
}

// CreateSubordinate provisions an account of the actor's subordinate role.
// The creator addressed by ownerID must be the actor.
func (s *UserService) CreateSubordinate(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, input CreateUserInput) (*models.User, error) {
	if err := policy.RequireSelf(actor, ownerID, ownerRole); err != nil {
		return nil, err
	}
	role, ok := ownerRole.Subordinate()
	if !ok {
		return nil, policy.ErrCannotProvisionFor
	}
	if err := policy.CanProvision(actor, role); err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = utils.NormalizeEmail(input.Email)
	if err := validateAccount(input); err != nil {
		return nil, err
	}
	if err := utils.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(input.Username, input.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	creatorID := actor.ID
	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         role,
		CreatedBy:    &creatorID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError(s.log, "create user", err)
	}

	s.log.Info("Account provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
		zap.String("created_by", creatorID.String()))
	return user, nil
}

// BootstrapAdmin creates the first admin account. It fails once any admin exists.
func (s *UserService) BootstrapAdmin(input CreateUserInput) (*models.User, error) {
	count, err := s.userRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return nil, storeError(s.log, "count admins", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = utils.NormalizeEmail(input.Email)
	if err := validateAccount(input); err != nil {
		return nil, err
	}
	if err := utils.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(input.Username, input.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError(s.log, "create admin", err)
	}
	return user, nil
}

// ListSubordinates lists the accounts provisioned by the owner addressed in
// the path. The owner itself or the owner's creator may list them.
func (s *UserService) ListSubordinates(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, params utils.PaginationParams) ([]models.User, int64, error) {
	owner, err := s.Lookup()(ownerID)
	if err != nil && !errors.Is(err, policy.ErrNotFound) {
		return nil, 0, err
	}
	if err := policy.CanViewAsSelfOrSuperior(s.Lookup(), actor, owner, ownerRole); err != nil {
		return nil, 0, err
	}

	role, ok := ownerRole.Subordinate()
	if !ok {
		return nil, 0, policy.ErrForbidden
	}

	users, total, err := s.userRepo.ListByCreator(repository.UserFilter{
		CreatorID:  ownerID,
		Role:       role,
		ActiveOnly: role == models.RoleEmployee,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, storeError(s.log, "list users", err)
	}
	return users, total, nil
}

// GetSubordinate returns one account provisioned by the actor.
func (s *UserService) GetSubordinate(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, targetID uuid.UUID) (*models.User, error) {
	if err := policy.RequireSelf(actor, ownerID, ownerRole); err != nil {
		return nil, err
	}

	target, err := s.Lookup()(targetID)
	if err != nil && !errors.Is(err, policy.ErrNotFound) {
		return nil, err
	}
	if err := policy.CanViewSubordinate(actor, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetActive activates or deactivates an account provisioned by the actor.
func (s *UserService) SetActive(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, targetID uuid.UUID, active bool) (*models.User, error) {
	if err := policy.RequireSelf(actor, ownerID, ownerRole); err != nil {
		return nil, err
	}
	if targetID == actor.ID {
		return nil, policy.ErrSelfTarget
	}

	user, err := s.userRepo.UpdateWithLock(targetID, func(target *models.User) error {
		if err := policy.CanSetActivation(actor, target); err != nil {
			return err
		}
		if target.IsActive == active {
			return ErrAlreadyInState
		}
		target.IsActive = active
		return nil
	})
	if err != nil {
		return nil, s.mutationError("update activation", err)
	}

	s.log.Info("Account activation changed",
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_active", active),
		zap.String("actor_id", actor.ID.String()))
	return user, nil
}

// ProfileInput holds the optional profile fields.
type ProfileInput struct {
	Username *string
	Email    *string
	FullName *string
}

// UpdateProfile changes the actor's own profile.
func (s *UserService) UpdateProfile(actor *models.User, subjectID uuid.UUID, role models.Role, input ProfileInput) (*models.User, error) {
	if err := policy.RequireSelf(actor, subjectID, role); err != nil {
		return nil, err
	}
	if input.Username == nil && input.Email == nil && input.FullName == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var username, email string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if err := validate.Var(username, "required,min=3,max=150"); err != nil {
			return nil, ErrInvalidUsername
		}
		if taken, err := s.userRepo.UsernameTaken(username, actor.ID); err != nil {
			return nil, storeError(s.log, "check username", err)
		} else if taken {
			return nil, ErrUsernameTaken
		}
	}
	if input.Email != nil {
		email = utils.NormalizeEmail(*input.Email)
		if err := validate.Var(email, "required,email,max=255"); err != nil {
			return nil, ErrInvalidEmail
		}
		if taken, err := s.userRepo.EmailTaken(email, actor.ID); err != nil {
			return nil, storeError(s.log, "check email", err)
		} else if taken {
			return nil, ErrEmailTaken
		}
	}

	user, err := s.userRepo.UpdateWithLock(actor.ID, func(u *models.User) error {
		if input.Username != nil {
			u.Username = username
		}
		if input.Email != nil {
			u.Email = email
		}
		if input.FullName != nil {
			fullName := strings.TrimSpace(*input.FullName)
			u.FullName = &fullName
		}
		return nil
	})
	if err != nil {
		return nil, s.mutationError("update profile", err)
	}
	return user, nil
}

// ResetPasswordInput holds the current and the replacement password.
type ResetPasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ResetPassword replaces the actor's password after verifying the current one.
func (s *UserService) ResetPassword(actor *models.User, subjectID uuid.UUID, role models.Role, input ResetPasswordInput) error {
	if err := policy.RequireSelf(actor, subjectID, role); err != nil {
		return err
	}
	if err := utils.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.userRepo.UpdateWithLock(actor.ID, func(u *models.User) error {
		if !VerifyPassword(u.PasswordHash, input.CurrentPassword) {
			return ErrIncorrectPassword
		}
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return s.mutationError("reset password", err)
	}
	return nil
}

func (s *UserService) ensureUnique(username, email string, exclude uuid.UUID) error {
	if taken, err := s.userRepo.UsernameTaken(username, exclude); err != nil {
		return storeError(s.log, "check username", err)
	} else if taken {
		return ErrUsernameTaken
	}
	if taken, err := s.userRepo.EmailTaken(email, exclude); err != nil {
		return storeError(s.log, "check email", err)
	} else if taken {
		return ErrEmailTaken
	}
	return nil
}

// mutationError passes through errors raised by a mutate callback and
// classifies datastore failures.
func (s *UserService) mutationError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return policy.ErrNotFound
	case errors.Is(err, policy.ErrForbidden),
		errors.Is(err, policy.ErrNotFound),
		errors.Is(err, policy.ErrSelfTarget),
		errors.Is(err, ErrAlreadyInState),
		errors.Is(err, ErrIncorrectPassword):
		return err
	default:
		return storeError(s.log, op, err)
	}
}

// validateAccount maps the first failing field of input to its sentinel error.
func validateAccount(input CreateUserInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	switch fieldErrs[0].Field() {
	case "Username":
		return ErrInvalidUsername
	case "Email":
		return ErrInvalidEmail
	case "Password":
		return utils.ErrWeakPassword
	default:
		return ErrInvalidFullName
	}
}
