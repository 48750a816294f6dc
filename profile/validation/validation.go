package validation

import (
	"fmt"
	"strings"

	"github.com/qolzam/newsroom/profile/models"
)

const (
	maxNameLength = 50
	maxBioLength  = 500
	maxLinkLength = 200
)

// ValidateUpdateProfileRequest checks the PATCH payload. At least one
// field must be present; provided names must stay within bounds.
func ValidateUpdateProfileRequest(req *models.UpdateProfileRequest) error {
	if req.FirstName == nil && req.LastName == nil && req.Phone == nil && req.Bio == nil && req.SocialLink == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return fmt.Errorf("firstName cannot be empty")
		}
		if len(*req.FirstName) > maxNameLength {
			return fmt.Errorf("firstName must be at most %d characters", maxNameLength)
		}
	}
	if req.LastName != nil && len(*req.LastName) > maxNameLength {
		return fmt.Errorf("lastName must be at most %d characters", maxNameLength)
	}
	if req.Bio != nil && len(*req.Bio) > maxBioLength {
		return fmt.Errorf("bio must be at most %d characters", maxBioLength)
	}
	if req.SocialLink != nil && len(*req.SocialLink) > maxLinkLength {
		return fmt.Errorf("socialLink must be at most %d characters", maxLinkLength)
	}

	return nil
}
