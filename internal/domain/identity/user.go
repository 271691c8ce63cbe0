package identity

import (
	"regexp"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a storefront account.
// IsAdmin gates every back office route.
type User struct {
	shared.BaseEntity
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	ProfileImageURL string
	IsAdmin         bool
}

// Profile holds the optional, user-editable fields of an account
type Profile struct {
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// NewUser creates a new customer account with a hashed password
func NewUser(email, password string) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ApplyProfile updates the fields present in p
func (u *User) ApplyProfile(p Profile) error {
	if p.FirstName != nil {
		if len(*p.FirstName) > 100 {
			return shared.NewDomainError("INVALID_NAME", "First name cannot exceed 100 characters")
		}
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		if len(*p.LastName) > 100 {
			return shared.NewDomainError("INVALID_NAME", "Last name cannot exceed 100 characters")
		}
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.ProfileImageURL != nil {
		if len(*p.ProfileImageURL) > 500 {
			return shared.NewDomainError("INVALID_AVATAR", "Profile image URL cannot exceed 500 characters")
		}
		u.ProfileImageURL = strings.TrimSpace(*p.ProfileImageURL)
	}
	u.Touch()
	return nil
}

// GrantAdmin marks the account as a back office administrator
func (u *User) GrantAdmin() {
	u.IsAdmin = true
	u.Touch()
}

// DisplayName returns the full name, falling back to the email
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores bytes past 72
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
