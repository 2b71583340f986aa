package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
)

// Password validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

// Role is a global RBAC role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// DefaultRole is granted to profiles that have no role yet.
const DefaultRole = RoleAgent

// Roles lists the assignable roles.
var Roles = []Role{RoleAdmin, RoleManager, RoleAgent}

// ParseRole returns the canonical role for raw. "gerente" is accepted as
// the legacy name of the manager role.
func ParseRole(raw string) (Role, bool) {
	switch normalizeEnum(raw) {
	case string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleManager), "gerente":
		return RoleManager, true
	case string(RoleAgent):
		return RoleAgent, true
	default:
		return "", false
	}
}

// PasswordRequirements defines what a valid password needs
type PasswordRequirements struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// DefaultPasswordRequirements returns the default password requirements
func DefaultPasswordRequirements() PasswordRequirements {
	return PasswordRequirements{
		MinLength:        MinPasswordLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
	}
}

// Profile is an account that can open and work tickets.
type Profile struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	TeamID         *uuid.UUID
	TeamName       string
	Roles          []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasRole reports whether the profile holds role.
func (p *Profile) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// RegistrationParams holds parameters for profile registration
type RegistrationParams struct {
	FullName string
	Email    string
	Password string
}

// Validate validates registration parameters
func (p *RegistrationParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	validateFullName(errs, p.FullName)

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	for _, msg := range ValidatePassword(p.Password) {
		errs.Add("password", msg)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ProfileUpdateParams holds the self-service profile changes.
type ProfileUpdateParams struct {
	FullName string
	TeamID   *uuid.UUID
}

// Validate validates the profile update.
func (p *ProfileUpdateParams) Validate() error {
	errs := apperrors.NewValidationErrors()
	validateFullName(errs, p.FullName)
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateFullName(errs *apperrors.ValidationErrors, fullName string) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(name) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}
}

// ValidatePassword checks if a password meets security requirements
// Returns a slice of error messages (empty if valid)
func ValidatePassword(password string) []string {
	var problems []string
	requirements := DefaultPasswordRequirements()

	if len(password) < requirements.MinLength {
		problems = append(problems, "Password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		problems = append(problems, "Password must be 128 characters or less")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if requirements.RequireUppercase && !hasUpper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if requirements.RequireLowercase && !hasLower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if requirements.RequireNumber && !hasNumber {
		problems = append(problems, "Password must contain at least one number")
	}
	if requirements.RequireSpecial && !hasSpecial {
		problems = append(problems, "Password must contain at least one special character")
	}

	return problems
}

// IsPasswordValid checks if a password is valid
func IsPasswordValid(password string) bool {
	return len(ValidatePassword(password)) == 0
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (p *Profile) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.HashedPassword), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if problems := ValidatePassword(password); len(problems) > 0 {
		return "", apperrors.ErrPasswordTooWeak
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// NewProfile creates a new profile with validated parameters
func NewProfile(params RegistrationParams) (*Profile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Profile{
		ID:             uuid.New(),
		FullName:       strings.TrimSpace(params.FullName),
		Email:          strings.ToLower(strings.TrimSpace(params.Email)),
		HashedPassword: hashedPassword,
		Roles:          []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
