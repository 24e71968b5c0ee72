package dto

import (
	"fmt"
	"strings"
	"time"

	"customer-engine/internal/domain/customer"
	"customer-engine/internal/domain/group"

	"github.com/shopspring/decimal"
)

// EditCustomerRequest is the sparse wire form of an edit command. A nil
// pointer means "leave unchanged"; a present empty string clears the
// attribute. The customer ID comes from the URL, never from the body.
type EditCustomerRequest struct {
	Gender         *string          `json:"gender,omitempty"`
	FirstName      *string          `json:"firstName,omitempty"`
	LastName       *string          `json:"lastName,omitempty"`
	Email          *string          `json:"email,omitempty"`
	Password       *string          `json:"password,omitempty"`
	Birthday       *string          `json:"birthday,omitempty"`
	Active         *bool            `json:"active,omitempty"`
	PartnerOffers  *bool            `json:"partnerOffers,omitempty"`
	Newsletter     *bool            `json:"newsletter,omitempty"`
	GroupIDs       *[]int64         `json:"groupIds,omitempty"`
	DefaultGroupID *int64           `json:"defaultGroupId,omitempty"`
	Company        *string          `json:"company,omitempty"`
	VATID          *string          `json:"vatId,omitempty"`
	Website        *string          `json:"website,omitempty"`
	CreditLimit    *decimal.Decimal `json:"creditLimit,omitempty"`
	RiskClass      *string          `json:"riskClass,omitempty"`
}

func (r *EditCustomerRequest) Validate() error {
	if r.DefaultGroupID != nil && *r.DefaultGroupID <= 0 {
		return fmt.Errorf("defaultGroupId must be a positive number")
	}
	if r.GroupIDs != nil {
		for _, id := range *r.GroupIDs {
			if id <= 0 {
				return fmt.Errorf("groupIds must contain positive numbers only")
			}
		}
	}
	if r.Birthday != nil && strings.TrimSpace(*r.Birthday) != "" {
		if _, err := time.Parse(time.DateOnly, *r.Birthday); err != nil {
			return fmt.Errorf("birthday must be formatted as YYYY-MM-DD")
		}
	}
	return nil
}

// ToCommand maps the wire form onto the domain command. Validate must have
// accepted the request first.
func (r *EditCustomerRequest) ToCommand(customerID int64) customer.EditCommand {
	cmd := customer.EditCommand{
		CustomerID:     customerID,
		Gender:         customer.FromPointer(r.Gender),
		FirstName:      customer.FromPointer(r.FirstName),
		LastName:       customer.FromPointer(r.LastName),
		Email:          customer.FromPointer(r.Email),
		Password:       customer.FromPointer(r.Password),
		Active:         customer.FromPointer(r.Active),
		PartnerOffers:  customer.FromPointer(r.PartnerOffers),
		Newsletter:     customer.FromPointer(r.Newsletter),
		DefaultGroupID: customer.FromPointer(r.DefaultGroupID),
		Company:        customer.FromPointer(r.Company),
		VATID:          customer.FromPointer(r.VATID),
		Website:        customer.FromPointer(r.Website),
		CreditLimit:    customer.FromPointer(r.CreditLimit),
		RiskClass:      customer.FromPointer(r.RiskClass),
	}
	if r.GroupIDs != nil {
		cmd.GroupIDs = customer.Some(*r.GroupIDs)
	}
	if r.Birthday != nil {
		if trimmed := strings.TrimSpace(*r.Birthday); trimmed == "" {
			cmd.Birthday = customer.Some[*time.Time](nil)
		} else {
			day, _ := time.Parse(time.DateOnly, trimmed)
			cmd.Birthday = customer.Some(&day)
		}
	}
	return cmd
}

type CustomerResponse struct {
	CustomerID     string           `json:"customerId"`
	Guest          bool             `json:"guest"`
	Type           string           `json:"type"`
	Email          string           `json:"email"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Gender         string           `json:"gender,omitempty"`
	Birthday       *string          `json:"birthday,omitempty"`
	Active         bool             `json:"active"`
	Newsletter     bool             `json:"newsletter"`
	PartnerOffers  bool             `json:"partnerOffers"`
	GroupIDs       []int64          `json:"groupIds"`
	DefaultGroupID int64            `json:"defaultGroupId"`
	Company        string           `json:"company,omitempty"`
	VATID          string           `json:"vatId,omitempty"`
	Website        string           `json:"website,omitempty"`
	CreditLimit    *decimal.Decimal `json:"creditLimit,omitempty"`
	RiskClass      string           `json:"riskClass,omitempty"`
	CreateDate     time.Time        `json:"createDate"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	var birthday *string
	if cust.Birthday != nil {
		s := cust.Birthday.Format(time.DateOnly)
		birthday = &s
	}

	var creditLimit *decimal.Decimal
	if !cust.Business.CreditLimit.IsZero() {
		c := cust.Business.CreditLimit
		creditLimit = &c
	}

	return CustomerResponse{
		CustomerID:     fmt.Sprintf("%d", cust.CustomerID),
		Guest:          cust.Guest,
		Type:           string(cust.Type),
		Email:          cust.Email,
		FirstName:      cust.FirstName,
		LastName:       cust.LastName,
		Gender:         cust.Gender,
		Birthday:       birthday,
		Active:         cust.Active,
		Newsletter:     cust.Newsletter,
		PartnerOffers:  cust.PartnerOffers,
		GroupIDs:       cust.GroupIDs,
		DefaultGroupID: cust.DefaultGroupID,
		Company:        cust.Business.Company,
		VATID:          cust.Business.VATID,
		Website:        cust.Business.Website,
		CreditLimit:    creditLimit,
		RiskClass:      cust.Business.RiskClass,
		CreateDate:     cust.CreateDate,
		UpdatedAt:      cust.UpdatedAt,
	}
}

type GroupResponse struct {
	GroupID int64  `json:"groupId"`
	Key     string `json:"key"`
	Name    string `json:"name"`
}

func NewGroupResponse(grp *group.Group) GroupResponse {
	if grp == nil {
		return GroupResponse{}
	}
	return GroupResponse{
		GroupID: grp.GroupID,
		Key:     grp.Key,
		Name:    grp.Name,
	}
}
