package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"customer-engine/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type serviceMocks struct {
	repo   *customer.MockCustomerRepository
	groups *customer.MockGroupRepository
	hasher *customer.MockPasswordHasher
	pub    *customer.MockEventPublisher
}

func setupTest() (serviceMocks, customer.CustomerService) {
	mocks := serviceMocks{
		repo:   new(customer.MockCustomerRepository),
		groups: new(customer.MockGroupRepository),
		hasher: new(customer.MockPasswordHasher),
		pub:    new(customer.MockEventPublisher),
	}

	fields := customer.StaticRequiredFields{
		"private":  {"email", "firstname", "lastname"},
		"business": {"email", "firstname", "lastname", "company"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mocks.repo, mocks.groups, mocks.hasher, fields, mocks.pub, logger)
	return mocks, service
}

func registeredCustomer() *customer.Customer {
	birthday := time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC)
	return &customer.Customer{
		CustomerID:     42,
		Guest:          false,
		Type:           customer.TypePrivate,
		Email:          "anna@example.com",
		PasswordHash:   "$2a$10$existinghash",
		FirstName:      "Anna",
		LastName:       "Schmidt",
		Gender:         "female",
		Birthday:       &birthday,
		Active:         true,
		GroupIDs:       []int64{1, 2},
		DefaultGroupID: 1,
		CreateDate:     time.Date(2020, 1, 15, 9, 30, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCustomerService_EditCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("empty command is idempotent", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("Update", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.CustomerID == 42 &&
				c.Email == stored.Email &&
				c.FirstName == stored.FirstName &&
				c.LastName == stored.LastName &&
				c.PasswordHash == stored.PasswordHash &&
				c.DefaultGroupID == stored.DefaultGroupID
		})).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		edited, err := service.EditCustomer(ctx, customer.EditCommand{CustomerID: 42})

		assert.NoError(t, err)
		assert.NotNil(t, edited)
		if edited != nil {
			assert.Equal(t, stored.Email, edited.Email)
			assert.Equal(t, stored.GroupIDs, edited.GroupIDs)
			assert.True(t, edited.UpdatedAt.After(stored.UpdatedAt))
		}
		mocks.repo.AssertExpectations(t)
		mocks.repo.AssertNotCalled(t, "FindRegisteredByEmail", mock.Anything, mock.Anything)
		mocks.groups.AssertNotCalled(t, "ExistingIDs", mock.Anything, mock.Anything)
	})

	t.Run("customer not found", func(t *testing.T) {
		mocks, service := setupTest()

		mocks.repo.On("FindByID", ctx, int64(999)).Return(nil, customer.ErrNotFound).Once()

		edited, err := service.EditCustomer(ctx, customer.EditCommand{CustomerID: 999})

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, customer.ErrNotFound)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unchanged email skips uniqueness lookup", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("Update", ctx, mock.Anything).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Email:      customer.Some("anna@example.com"),
		}
		_, err := service.EditCustomer(ctx, cmd)

		assert.NoError(t, err)
		mocks.repo.AssertNotCalled(t, "FindRegisteredByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email held by another registered account is rejected", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()
		stored.Email = "a@x.com"
		other := registeredCustomer()
		other.CustomerID = 77
		other.Email = "b@x.com"

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("FindRegisteredByEmail", ctx, "b@x.com").Return(other, nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Email:      customer.Some("b@x.com"),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, customer.ErrEmailTaken)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("free email is accepted", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()
		stored.Email = "a@x.com"

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("FindRegisteredByEmail", ctx, "c@x.com").Return(nil, customer.ErrNotFound).Once()
		mocks.repo.On("Update", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Email == "c@x.com"
		})).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Email:      customer.Some("c@x.com"),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, "c@x.com", edited.Email)
		mocks.repo.AssertExpectations(t)
	})

	t.Run("guest may share an email with a registered account", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()
		stored.Guest = true

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("Update", ctx, mock.Anything).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Email:      customer.Some("taken@example.com"),
		}
		_, err := service.EditCustomer(ctx, cmd)

		assert.NoError(t, err)
		mocks.repo.AssertNotCalled(t, "FindRegisteredByEmail", mock.Anything, mock.Anything)
	})

	t.Run("default group outside new group set is rejected", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.groups.On("ExistingIDs", ctx, []int64{1, 2}).Return([]int64{1, 2}, nil).Once()

		cmd := customer.EditCommand{
			CustomerID:     42,
			GroupIDs:       customer.Some([]int64{1, 2}),
			DefaultGroupID: customer.Some(int64(3)),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, customer.ErrDefaultGroupNotAssigned)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new default group checked against stored group set", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()

		cmd := customer.EditCommand{
			CustomerID:     42,
			DefaultGroupID: customer.Some(int64(9)),
		}
		_, err := service.EditCustomer(ctx, cmd)

		assert.ErrorIs(t, err, customer.ErrDefaultGroupNotAssigned)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new group set checked against stored default group", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.groups.On("ExistingIDs", ctx, []int64{2, 3}).Return([]int64{2, 3}, nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			GroupIDs:   customer.Some([]int64{2, 3}),
		}
		_, err := service.EditCustomer(ctx, cmd)

		assert.ErrorIs(t, err, customer.ErrDefaultGroupNotAssigned)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown group in new set is rejected", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.groups.On("ExistingIDs", ctx, []int64{1, 404}).Return([]int64{1}, nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			GroupIDs:   customer.Some([]int64{1, 404}),
		}
		_, err := service.EditCustomer(ctx, cmd)

		assert.ErrorIs(t, err, customer.ErrUnknownGroup)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("password is hashed before it reaches the snapshot", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.hasher.On("Hash", "secret").Return("$2a$10$freshhash", nil).Once()
		mocks.repo.On("Update", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.PasswordHash == "$2a$10$freshhash" && c.PasswordHash != "secret"
		})).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Password:   customer.Some("secret"),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, "$2a$10$freshhash", edited.PasswordHash)
		mocks.hasher.AssertExpectations(t)
		mocks.repo.AssertExpectations(t)
	})

	t.Run("hashing failure aborts before the write", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()
		hashErr := errors.New("bcrypt: password length exceeds 72 bytes")

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.hasher.On("Hash", "secret").Return("", hashErr).Once()

		edited, err := service.EditCustomer(ctx, cmd42WithPassword("secret"))

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, hashErr)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("clearing a required field is rejected", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			LastName:   customer.Some(""),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, customer.ErrMissingRequiredField)
		assert.Contains(t, err.Error(), "lastname")
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("filling a required field passes the gate", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()
		stored.LastName = ""

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("Update", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.LastName == "Meyer"
		})).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			LastName:   customer.Some("Meyer"),
		}
		_, err := service.EditCustomer(ctx, cmd)

		assert.NoError(t, err)
		mocks.repo.AssertExpectations(t)
	})

	t.Run("merged snapshot failing record validation is rejected", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("FindRegisteredByEmail", ctx, "not-an-email").Return(nil, customer.ErrNotFound).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Email:      customer.Some("not-an-email"),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, customer.ErrInvalidCustomer)
		mocks.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unique index rejection surfaces as email taken", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("FindRegisteredByEmail", ctx, "raced@example.com").Return(nil, customer.ErrNotFound).Once()
		mocks.repo.On("Update", ctx, mock.Anything).Return(customer.ErrEmailTaken).Once()

		cmd := customer.EditCommand{
			CustomerID: 42,
			Email:      customer.Some("raced@example.com"),
		}
		edited, err := service.EditCustomer(ctx, cmd)

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, customer.ErrEmailTaken)
		mocks.pub.AssertNotCalled(t, "PublishCustomerUpdated", mock.Anything, mock.Anything)
	})

	t.Run("repository update failure is wrapped", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()
		dbErr := errors.New("connection reset")

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("Update", ctx, mock.Anything).Return(dbErr).Once()

		edited, err := service.EditCustomer(ctx, customer.EditCommand{CustomerID: 42})

		assert.Nil(t, edited)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to persist edited customer")
		mocks.pub.AssertNotCalled(t, "PublishCustomerUpdated", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the edit", func(t *testing.T) {
		mocks, service := setupTest()
		stored := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(stored, nil).Once()
		mocks.repo.On("Update", ctx, mock.Anything).Return(nil).Once()
		mocks.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		edited, err := service.EditCustomer(ctx, customer.EditCommand{CustomerID: 42})

		assert.NoError(t, err)
		assert.NotNil(t, edited)
		mocks.pub.AssertExpectations(t)
	})
}

func cmd42WithPassword(plaintext string) customer.EditCommand {
	return customer.EditCommand{
		CustomerID: 42,
		Password:   customer.Some(plaintext),
	}
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mocks, service := setupTest()
		expected := registeredCustomer()

		mocks.repo.On("FindByID", ctx, int64(42)).Return(expected, nil).Once()

		cust, err := service.GetCustomer(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, expected, cust)
		mocks.repo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mocks, service := setupTest()

		mocks.repo.On("FindByID", ctx, int64(99)).Return(nil, customer.ErrNotFound).Once()

		cust, err := service.GetCustomer(ctx, 99)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, customer.ErrNotFound)
		mocks.repo.AssertExpectations(t)
	})

	t.Run("Repository Error", func(t *testing.T) {
		mocks, service := setupTest()
		dbErr := errors.New("timeout")

		mocks.repo.On("FindByID", ctx, int64(42)).Return(nil, dbErr).Once()

		cust, err := service.GetCustomer(ctx, 42)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, dbErr)
		mocks.repo.AssertExpectations(t)
	})
}

func TestCustomerService_ListCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mocks, service := setupTest()
		expected := []*customer.Customer{registeredCustomer()}

		mocks.repo.On("FindAll", ctx, true).Return(expected, nil).Once()

		customers, err := service.ListCustomers(ctx, true)

		assert.NoError(t, err)
		assert.Len(t, customers, 1)
		mocks.repo.AssertExpectations(t)
	})

	t.Run("Repository Error", func(t *testing.T) {
		mocks, service := setupTest()
		dbErr := errors.New("timeout")

		mocks.repo.On("FindAll", ctx, false).Return(nil, dbErr).Once()

		customers, err := service.ListCustomers(ctx, false)

		assert.Nil(t, customers)
		assert.ErrorIs(t, err, dbErr)
		mocks.repo.AssertExpectations(t)
	})
}
