package application

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-quiver/internal/domain"
)

// newValidator returns a validator with the selection tags registered.
// Registration of these fixed tags cannot fail, so a failure panics.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterSelectionValidators(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterSelectionValidators registers the bowstyle, gender, agegroup and
// discipline tags with v. Values are compared after normalization, so
// "Under 18" satisfies agegroup.
func RegisterSelectionValidators(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"bowstyle":   validateBowstyle,
		"gender":     validateGender,
		"agegroup":   validateAgeGroup,
		"discipline": validateDiscipline,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

func validateBowstyle(fl validator.FieldLevel) bool {
	return slices.Contains(domain.Bowstyles, domain.NormalizeBowstyle(fl.Field().String()))
}

func validateGender(fl validator.FieldLevel) bool {
	return slices.Contains(domain.Genders, domain.NormalizeGender(fl.Field().String()))
}

func validateAgeGroup(fl validator.FieldLevel) bool {
	return slices.Contains(domain.AgeGroups, domain.NormalizeAge(fl.Field().String()))
}

// validateDiscipline accepts any declared Discipline, including field;
// builders reject field themselves so the error names the discipline.
func validateDiscipline(fl validator.FieldLevel) bool {
	d := domain.Discipline(fl.Field().Int())
	return d == domain.DisciplineOutdoor || d == domain.DisciplineIndoor || d == domain.DisciplineField
}

// toValidationError flattens validator output into a domain.ValidationError.
// Errors that did not come from field validation are returned unchanged.
func toValidationError(entity string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := domain.NewValidationError(entity)
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			verr.AddError(fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			verr.AddError(fmt.Sprintf("%s failed %s (got %v)", field, fe.Tag(), fe.Value()))
		}
	}
	return verr
}
