package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrEmailTaken = errors.New("email address already used by another registered account")

	ErrDefaultGroupNotAssigned = errors.New("default group is not part of the assigned group set")

	ErrUnknownGroup = errors.New("assigned customer group does not exist")

	ErrMissingRequiredField = errors.New("required field resolved to empty")

	ErrInvalidCustomer = errors.New("customer record validation failed")
)

type CustomerRepository interface {
	// FindByID resolves one customer or returns ErrNotFound.
	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// FindRegisteredByEmail resolves a non-guest customer by email or returns
	// ErrNotFound. Guest accounts never match; they may share an email.
	FindRegisteredByEmail(ctx context.Context, email string) (*Customer, error)

	FindAll(ctx context.Context, activeOnly bool) ([]*Customer, error)

	// Update persists an already existing customer. ErrNotFound when the row
	// disappeared, ErrEmailTaken when the registered-email unique index
	// rejects the write.
	Update(ctx context.Context, cust *Customer) error
}

// PasswordHasher turns a plain-text password into the stored hash. The
// legacy secondary key is fixed at construction; callers never see it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}
