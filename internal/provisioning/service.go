package provisioning

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/internal/users"
	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/metrics"
	"github.com/blazetaller/taller-backend/pkg/security"
)

const maxNameLength = 30

// Service provisions users together with their profile and permission group.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID, role enums.Role) (*models.Profile, bool, error)
	AssignGroup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role enums.Role) (string, error)
	CheckGroups(ctx context.Context) error
}

// ServiceParams packages the dependencies for provisioning.
type ServiceParams struct {
	DB             *db.Client
	Repo           Repository
	PasswordConfig config.PasswordConfig
	ExtraGroups    []string
	Metrics        *metrics.DomainMetrics
	Logger         *logger.Logger
}

// CreateUserInput is the data needed to provision a new account.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      enums.Role
	IsStaff   bool
}

// CreateUserResult reports the persisted user and the side effects applied.
type CreateUserResult struct {
	User   *users.UserDTO `json:"user"`
	Role   enums.Role     `json:"role"`
	Groups []string       `json:"groups"`
}

type service struct {
	db          *db.Client
	repo        Repository
	passwordCfg config.PasswordConfig
	extraGroups []string
	metrics     *metrics.DomainMetrics
	logg        *logger.Logger
	validate    *validator.Validate
}

// NewService builds a provisioning service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	repo := params.Repo
	if repo == nil {
		repo = NewRepository(params.DB.DB())
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		db:          params.DB,
		repo:        repo,
		passwordCfg: params.PasswordConfig,
		extraGroups: params.ExtraGroups,
		metrics:     params.Metrics,
		logg:        logg,
		validate:    validator.New(),
	}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "email", "InvalidEmail", "a valid email is required")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || len(firstName) > maxNameLength {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "first_name", "InvalidName", "first name is required (max 30 characters)")
	}
	if lastName == "" || len(lastName) > maxNameLength {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "last_name", "InvalidName", "last name is required (max 30 characters)")
	}
	role := input.Role
	if role == "" {
		role = enums.DefaultRole
	}
	if !role.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "role", "InvalidRole", "invalid role")
	}

	if input.Password == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "password", "Required", "password is required")
	}
	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var (
		user    *models.User
		created bool
		group   string
		groups  []string
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.Field(pkgerrors.CodeConflict, "email", "DuplicateEmail", "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err = userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    firstName,
			LastName:     lastName,
			IsStaff:      input.IsStaff,
		})
		if err != nil {
			return db.TranslateError(err, "create user")
		}

		var profile *models.Profile
		profile, created, err = s.repo.WithTx(tx).EnsureProfile(ctx, user.ID, role)
		if err != nil {
			return db.TranslateError(err, "ensure profile")
		}
		if created {
			if group, err = s.AssignGroup(ctx, tx, user.ID, profile.Role); err != nil {
				return err
			}
		}

		groups, err = userRepo.GroupNames(ctx, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user groups")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordProvisioned(created, group)
	logCtx := s.logg.WithUserID(ctx, user.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{"role": role.String(), "groups": groups})
	s.logg.Info(logCtx, "user provisioned")

	if groups == nil {
		groups = []string{}
	}
	return &CreateUserResult{
		User:   users.FromModel(user),
		Role:   role,
		Groups: groups,
	}, nil
}

func (s *service) EnsureProfile(ctx context.Context, userID uuid.UUID, role enums.Role) (*models.Profile, bool, error) {
	if userID == uuid.Nil {
		return nil, false, pkgerrors.Field(pkgerrors.CodeValidation, "user_id", "Required", "user id required")
	}
	if role == "" {
		role = enums.DefaultRole
	}
	if !role.IsValid() {
		return nil, false, pkgerrors.Field(pkgerrors.CodeValidation, "role", "InvalidRole", "invalid role")
	}

	var (
		profile *models.Profile
		created bool
		group   string
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := users.NewRepository(tx).FindByID(ctx, userID); err != nil {
			return db.TranslateError(err, "user not found")
		}

		var err error
		profile, created, err = s.repo.WithTx(tx).EnsureProfile(ctx, userID, role)
		if err != nil {
			return db.TranslateError(err, "ensure profile")
		}
		if !created {
			return nil
		}
		group, err = s.AssignGroup(ctx, tx, userID, profile.Role)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	s.recordProvisioned(created, group)
	return profile, created, nil
}

// AssignGroup adds the user to the group mapped to role and returns its name.
// Roles without a mapped group join nothing and return "". A mapped group
// that does not exist is a configuration error.
func (s *service) AssignGroup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role enums.Role) (string, error) {
	name, ok := role.GroupName()
	if !ok {
		return "", nil
	}

	group, err := s.repo.WithTx(tx).FindGroupByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeMissingConfiguration, "required group is missing").
				WithDetails(map[string]any{"group": name})
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load group")
	}

	if _, err := users.NewRepository(tx).AddToGroup(ctx, userID, group.ID); err != nil {
		return "", db.TranslateError(err, "add user to group")
	}
	return group.Name, nil
}

// CheckGroups verifies that every required group exists. All missing names
// are reported in a single MISSING_CONFIGURATION error.
func (s *service) CheckGroups(ctx context.Context) error {
	required := s.requiredGroups()
	found, err := s.repo.ListGroupsByName(ctx, required)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}

	present := make(map[string]struct{}, len(found))
	for _, group := range found {
		present[group.Name] = struct{}{}
	}

	var (
		missing []string
		errs    error
	)
	for _, name := range required {
		if _, ok := present[name]; ok {
			continue
		}
		missing = append(missing, name)
		errs = multierr.Append(errs, &missingGroupError{name: name})
	}
	if errs == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeMissingConfiguration, errs, "required groups are missing").
		WithDetails(map[string]any{"missing_groups": missing})
}

func (s *service) requiredGroups() []string {
	required := enums.RequiredGroups()
	seen := make(map[string]struct{}, len(required)+len(s.extraGroups))
	for _, name := range required {
		seen[name] = struct{}{}
	}
	for _, name := range s.extraGroups {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		required = append(required, name)
	}
	return required
}

func (s *service) recordProvisioned(created bool, group string) {
	if !created {
		return
	}
	s.metrics.IncProfileCreated()
	if group != "" {
		s.metrics.IncGroupAssignment(group)
	}
}

type missingGroupError struct {
	name string
}

func (e *missingGroupError) Error() string {
	return "group " + e.name + " does not exist"
}
