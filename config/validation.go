package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields []string
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequiredFields: []string{"db_host", "db_name", "db_user", "db_password", "jwt_secret", "gemini_api_key"},
	},
	Test: {
		RequiredFields: []string{"jwt_secret"},
	},
	CI: {
		RequiredFields: []string{"db_host", "db_name", "db_user", "db_password", "jwt_secret"},
	},
	Production: {
		RequiredFields: []string{
			"db_host", "db_name", "db_user", "db_password",
			"jwt_secret", "gemini_api_key", "s3_bucket_name", "aws_region",
		},
	},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]
	fields := fieldMap(cfg)

	var errs []string
	for _, name := range reqs.RequiredFields {
		if dst, ok := fields[name]; !ok || *dst == "" {
			kind := "environment variable " + strings.ToUpper(name)
			if isSecret(name) && env != CI {
				kind = "secret " + name
			}
			errs = append(errs, ValidationError{Field: name, Message: "required " + kind + " is not set"}.Error())
		}
	}

	switch cfg.Detector {
	case "gemini", "rekognition":
	default:
		errs = append(errs, ValidationError{Field: "detector", Message: fmt.Sprintf("unknown detector %q", cfg.Detector)}.Error())
	}
	if cfg.Detector == "rekognition" && cfg.Storage.Region == "" {
		errs = append(errs, ValidationError{Field: "aws_region", Message: "required by the rekognition detector"}.Error())
	}

	if _, err := time.LoadLocation(cfg.RecapTimezone); err != nil {
		errs = append(errs, ValidationError{Field: "recap_timezone", Message: err.Error()}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// Location returns the recap time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.RecapTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
