package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/statusdesk/status-admin/internal/semexpr"
)

var deviceTypePattern = regexp.MustCompile(`^[0-9A-Za-z_.*-]+$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// V returns the shared validator with the status-specific tags registered.
func V() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("devicetype", deviceTypeValidator)
		_ = v.RegisterValidation("semversion", semVersionValidator)
		validate = v
	})
	return validate
}

func deviceTypeValidator(fl validator.FieldLevel) bool {
	return deviceTypePattern.MatchString(fl.Field().String())
}

// semVersionValidator accepts a client version or "*".
func semVersionValidator(fl validator.FieldLevel) bool {
	return semexpr.IsValidVersionString(fl.Field().String())
}

// ValidateExpression checks a stored targeting expression before it is
// persisted.
func ValidateExpression(expr string) error {
	return semexpr.Validate(expr)
}

// problems accumulates every validation failure of one request.
type problems struct {
	errs *multierror.Error
}

func (p *problems) add(err error) {
	if err != nil {
		p.errs = multierror.Append(p.errs, err)
	}
}

func (p *problems) addStruct(req any) {
	err := V().Struct(req)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		p.add(err)
		return
	}
	for _, fe := range fieldErrs {
		p.add(fieldError(fe))
	}
}

func (p *problems) addExpression(field, expr string) {
	if expr == "" {
		// reported by the required tag
		return
	}
	if err := ValidateExpression(expr); err != nil {
		p.add(fmt.Errorf("%s: %w", field, err))
	}
}

func (p *problems) addWindow(start, end *time.Time) {
	if start != nil && end != nil && !start.Before(*end) {
		p.add(fmt.Errorf("start_time must be before end_time"))
	}
}

func (p *problems) err() error {
	if p.errs == nil {
		return nil
	}
	p.errs.ErrorFormat = joinErrors
	return fmt.Errorf("%w: %w", ErrInvalidStatus, p.errs)
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "min":
		return fmt.Errorf("%s must have length at least %s", field, fe.Param())
	case "max":
		return fmt.Errorf("%s exceeds maximum length %s", field, fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "devicetype":
		return fmt.Errorf("%s has invalid device type %q", field, fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}

func joinErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}
