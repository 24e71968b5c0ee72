package customer

import (
	"fmt"
	"strings"
	"time"
)

// RequiredFieldSource resolves which field names must be non-empty for a
// customer type. The set comes from external configuration, not code.
type RequiredFieldSource interface {
	RequiredFieldsFor(customerType CustomerType) []string
}

// StaticRequiredFields adapts a plain map, typically unmarshalled from the
// configuration file, to the RequiredFieldSource contract.
type StaticRequiredFields map[string][]string

var _ RequiredFieldSource = (StaticRequiredFields)(nil)

func (s StaticRequiredFields) RequiredFieldsFor(customerType CustomerType) []string {
	return s[string(customerType)]
}

// resolveRequiredFields checks the merged snapshot against the configured
// field names. It runs after the merge, so the effective value of each field
// is the command's value where the command set one and the stored value
// everywhere else. Field names the resolver does not know are skipped.
func resolveRequiredFields(required []string, snapshot Customer) error {
	for _, field := range required {
		value, known := requiredFieldValue(snapshot, field)
		if !known {
			continue
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: '%s'", ErrMissingRequiredField, field)
		}
	}
	return nil
}

// MissingRequiredFields reports every configured field name that resolves to
// empty on the snapshot. The edit pipeline stops at the first offender; the
// audit job wants the full list.
func MissingRequiredFields(required []string, snapshot Customer) []string {
	var missing []string
	for _, field := range required {
		value, known := requiredFieldValue(snapshot, field)
		if !known {
			continue
		}
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func requiredFieldValue(snapshot Customer, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "email":
		return snapshot.Email, true
	case "firstname":
		return snapshot.FirstName, true
	case "lastname":
		return snapshot.LastName, true
	case "gender":
		return snapshot.Gender, true
	case "birthday":
		if snapshot.Birthday == nil {
			return "", true
		}
		return snapshot.Birthday.Format(time.DateOnly), true
	case "company":
		return snapshot.Business.Company, true
	case "vatid":
		return snapshot.Business.VATID, true
	case "website":
		return snapshot.Business.Website, true
	case "riskclass":
		return snapshot.Business.RiskClass, true
	default:
		return "", false
	}
}
