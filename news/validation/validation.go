package validation

import (
	"fmt"
	"strings"

	"github.com/qolzam/newsroom/news/models"
)

const (
	maxTitleLength   = 80
	maxExcerptLength = 500
	maxBodyLength    = 20000
)

// ValidateCreateNewsRequest validates the create news request
func ValidateCreateNewsRequest(req *models.CreateNewsRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(req.Title) > maxTitleLength {
		return fmt.Errorf("title must be at most %d characters", maxTitleLength)
	}
	if len(req.Excerpt) > maxExcerptLength {
		return fmt.Errorf("excerpt must be at most %d characters", maxExcerptLength)
	}
	if len(req.Body) > maxBodyLength {
		return fmt.Errorf("body must be at most %d characters", maxBodyLength)
	}

	return nil
}

// ValidateUpdateNewsRequest validates the update news request
func ValidateUpdateNewsRequest(req *models.UpdateNewsRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if req.Title == nil && req.Excerpt == nil && req.Body == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return fmt.Errorf("title cannot be empty or whitespace only")
		}
		if len(*req.Title) > maxTitleLength {
			return fmt.Errorf("title must be at most %d characters", maxTitleLength)
		}
	}
	if req.Excerpt != nil && len(*req.Excerpt) > maxExcerptLength {
		return fmt.Errorf("excerpt must be at most %d characters", maxExcerptLength)
	}
	if req.Body != nil && len(*req.Body) > maxBodyLength {
		return fmt.Errorf("body must be at most %d characters", maxBodyLength)
	}

	return nil
}

// ValidateQueryFilter normalizes and validates list query parameters
func ValidateQueryFilter(filter *models.NewsQueryFilter) error {
	if filter == nil {
		return fmt.Errorf("filter is required")
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		return fmt.Errorf("limit must be at most 100")
	}

	return nil
}
