package validation

import (
	"fmt"
	"strings"

	"github.com/qolzam/newsroom/auth/models"
)

const (
	maxEmailLength    = 254
	minPasswordLength = 8
	maxNameLength     = 50
)

// ValidateSignupRequest checks the signup payload shape. Password
// strength is scored separately in the service.
func ValidateSignupRequest(req *models.SignupRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > maxEmailLength || !strings.Contains(email, "@") {
		return fmt.Errorf("email is not valid")
	}

	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if strings.TrimSpace(req.FirstName) == "" {
		return fmt.Errorf("firstName is required")
	}
	if len(req.FirstName) > maxNameLength {
		return fmt.Errorf("firstName must be at most %d characters", maxNameLength)
	}
	if len(req.LastName) > maxNameLength {
		return fmt.Errorf("lastName must be at most %d characters", maxNameLength)
	}

	return nil
}

// ValidateLoginRequest checks the login payload shape
func ValidateLoginRequest(req *models.LoginRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
