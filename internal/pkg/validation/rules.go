// Package validation holds the custom binding rules shared by request DTOs
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// National identity document: letters, digits, dots and hyphens
	NationalIDPattern = `^[0-9A-Za-z][0-9A-Za-z.\-]{3,31}$`

	// Phone number: optional leading +, digits, spaces, parentheses and hyphens
	PhonePattern = `^\+?[0-9 ()\-]{6,20}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	NationalID *regexp.Regexp
	Phone      *regexp.Regexp
}{
	NationalID: regexp.MustCompile(NationalIDPattern),
	Phone:      regexp.MustCompile(PhonePattern),
}

// Binding tags registered by Register
const (
	TagNationalID = "cedula"
	TagPhone      = "telefono"
)

// IsNationalID reports whether value is an acceptable identity document number.
// Surrounding whitespace is ignored; services trim it before storing.
func IsNationalID(value string) bool {
	return CompiledPatterns.NationalID.MatchString(strings.TrimSpace(value))
}

// IsPhone reports whether value looks like a phone number
func IsPhone(value string) bool {
	value = strings.TrimSpace(value)
	if !CompiledPatterns.Phone.MatchString(value) {
		return false
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 6
}

func stringRule(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	}
}

// Register installs the custom rules on v
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagNationalID: stringRule(IsNationalID),
		TagPhone:      stringRule(IsPhone),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q rule: %w", tag, err)
		}
	}
	return nil
}
