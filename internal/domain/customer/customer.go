package customer

import (
	"net/mail"
	"strings"
	"time"

	"customer-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CustomerType string

const (
	TypePrivate  CustomerType = "private"
	TypeBusiness CustomerType = "business"
)

var validGenders = map[string]struct{}{
	"":        {},
	"male":    {},
	"female":  {},
	"diverse": {},
}

// Customer is the aggregate edited by the edit pipeline. A loaded instance is
// private to a single operation; the stored record is only replaced by one
// repository Update call.
type Customer struct {
	CustomerID     int64        `json:"customerId"`
	Guest          bool         `json:"guest"`
	Type           CustomerType `json:"type"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Gender         string       `json:"gender"`
	Birthday       *time.Time   `json:"birthday,omitempty"`
	Active         bool         `json:"active"`
	Newsletter     bool         `json:"newsletter"`
	PartnerOffers  bool         `json:"partnerOffers"`
	GroupIDs       []int64      `json:"groupIds"`
	DefaultGroupID int64        `json:"defaultGroupId"`
	Business       BusinessAttributes
	CreateDate     time.Time `json:"createDate"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BusinessAttributes is the B2B block. It carries no rules of its own beyond
// generic record validation and required-field presence.
type BusinessAttributes struct {
	Company     string          `json:"company"`
	VATID       string          `json:"vatId"`
	Website     string          `json:"website"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	RiskClass   string          `json:"riskClass"`
}

// HasGroup reports whether groupID is part of the assigned group set.
func (c *Customer) HasGroup(groupID int64) bool {
	for _, id := range c.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// Validate is the generic record-level validation contract. It checks
// attribute formats and ranges only; cross-record invariants (email
// uniqueness, group membership) are enforced by the edit pipeline.
func (c *Customer) Validate() error {
	if c.Type != TypePrivate && c.Type != TypeBusiness {
		return apperrors.NewValidationError("type", "unknown customer type")
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return apperrors.NewValidationError("email", "not a valid email address")
		}
	}
	if _, ok := validGenders[c.Gender]; !ok {
		return apperrors.NewValidationError("gender", "unknown gender value")
	}
	if len(c.FirstName) > 255 {
		return apperrors.NewValidationError("firstname", "must not exceed 255 characters")
	}
	if len(c.LastName) > 255 {
		return apperrors.NewValidationError("lastname", "must not exceed 255 characters")
	}
	if c.Birthday != nil && c.Birthday.After(time.Now()) {
		return apperrors.NewValidationError("birthday", "must not be in the future")
	}
	if c.DefaultGroupID <= 0 {
		return apperrors.NewValidationError("defaultGroupId", "must be a positive group ID")
	}
	if c.Business.CreditLimit.IsNegative() {
		return apperrors.NewValidationError("creditLimit", "must not be negative")
	}
	return nil
}
