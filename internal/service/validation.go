package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed on %s", ErrValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// validateTargets requires a non-empty set of non-blank platform identifiers.
// Identifiers differing only in case count as duplicates.
func validateTargets(targets []string) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: at least one platform is required", ErrValidation)
	}

	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" {
			return fmt.Errorf("%w: platform must not be blank", ErrValidation)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate platform %q", ErrValidation, t)
		}
		seen[key] = struct{}{}
	}
	return nil
}
