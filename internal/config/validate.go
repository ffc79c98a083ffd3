package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their config key names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks field constraints and the cross-field rules the struct
// tags cannot express.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	if c.Capacity.SubGroup > c.Capacity.Global {
		problems = append(problems, fmt.Sprintf("capacity.sub_group (%d) exceeds capacity.global (%d)", c.Capacity.SubGroup, c.Capacity.Global))
	}
	if (c.Blackout.Start == "") != (c.Blackout.End == "") {
		problems = append(problems, "blackout.start and blackout.end must be set together")
	} else if c.Blackout.Start != "" && c.Blackout.End < c.Blackout.Start {
		// Same-layout dates order lexically.
		problems = append(problems, fmt.Sprintf("blackout.end %s is before blackout.start %s", c.Blackout.End, c.Blackout.Start))
	}
	for name, r := range map[string]RangeConfig{"large": c.Durations.Large, "small": c.Durations.Small} {
		if r.Min > r.Max || r.Default < r.Min || r.Default > r.Max {
			problems = append(problems, fmt.Sprintf("durations.%s: need min <= default <= max, got %d/%d/%d", name, r.Min, r.Default, r.Max))
		}
	}
	switch c.Tracker.Kind {
	case "github":
		if c.Tracker.GitHub.Owner == "" || c.Tracker.GitHub.Repo == "" {
			problems = append(problems, "tracker.github.owner and tracker.github.repo are required for the github tracker")
		}
	case "azboards":
		if c.Tracker.Azure.Organization == "" || c.Tracker.Azure.Project == "" {
			problems = append(problems, "tracker.azure.organization and tracker.azure.project are required for the azboards tracker")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date, got %v", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
