package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// EditCommand is a sparse update request for one existing customer. Only
// CustomerID is mandatory; every other field is independently optional and
// absent fields leave the stored attribute untouched. A command is built
// once per request and never mutated.
type EditCommand struct {
	CustomerID int64

	Gender         Optional[string]
	FirstName      Optional[string]
	LastName       Optional[string]
	Email          Optional[string]
	Password       Optional[string]
	Birthday       Optional[*time.Time]
	Active         Optional[bool]
	PartnerOffers  Optional[bool]
	Newsletter     Optional[bool]
	GroupIDs       Optional[[]int64]
	DefaultGroupID Optional[int64]

	Company     Optional[string]
	VATID       Optional[string]
	Website     Optional[string]
	CreditLimit Optional[decimal.Decimal]
	RiskClass   Optional[string]
}

// touchesGroups reports whether the command changes the group set or the
// default group, which is what makes the membership invariant worth
// re-checking.
func (cmd EditCommand) touchesGroups() bool {
	return cmd.GroupIDs.IsSet() || cmd.DefaultGroupID.IsSet()
}

// applyTo merges the command onto a copy of the loaded customer and returns
// the new snapshot. The password, if present, must already be hashed by the
// caller; plain text never reaches the snapshot. The stored record is not
// touched here.
func (cmd EditCommand) applyTo(cust Customer, hashedPassword Optional[string]) Customer {
	cust.Gender = cmd.Gender.Or(cust.Gender)
	cust.FirstName = cmd.FirstName.Or(cust.FirstName)
	cust.LastName = cmd.LastName.Or(cust.LastName)
	cust.Email = cmd.Email.Or(cust.Email)
	cust.PasswordHash = hashedPassword.Or(cust.PasswordHash)
	cust.Birthday = cmd.Birthday.Or(cust.Birthday)
	cust.Active = cmd.Active.Or(cust.Active)
	cust.PartnerOffers = cmd.PartnerOffers.Or(cust.PartnerOffers)
	cust.Newsletter = cmd.Newsletter.Or(cust.Newsletter)
	if groupIDs, ok := cmd.GroupIDs.Value(); ok {
		cust.GroupIDs = append([]int64(nil), groupIDs...)
	}
	cust.DefaultGroupID = cmd.DefaultGroupID.Or(cust.DefaultGroupID)

	cmd.applyBusinessTo(&cust)

	cust.UpdatedAt = time.Now()
	return cust
}

// applyBusinessTo merges the B2B block as its own sub-step. It has to run
// before the persistence gate so required-field resolution sees the final
// values.
func (cmd EditCommand) applyBusinessTo(cust *Customer) {
	cust.Business.Company = cmd.Company.Or(cust.Business.Company)
	cust.Business.VATID = cmd.VATID.Or(cust.Business.VATID)
	cust.Business.Website = cmd.Website.Or(cust.Business.Website)
	cust.Business.CreditLimit = cmd.CreditLimit.Or(cust.Business.CreditLimit)
	cust.Business.RiskClass = cmd.RiskClass.Or(cust.Business.RiskClass)
}
