package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-engine/internal/domain/group"
	"customer-engine/internal/event"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	// EditCustomer applies a sparse edit command to an existing customer.
	// The pipeline is strictly load, check invariants, merge, gate, persist;
	// any failure aborts before the write and nothing is partially stored.
	EditCustomer(ctx context.Context, cmd EditCommand) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, activeOnly bool) ([]*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	groups group.Repository
	hasher PasswordHasher
	fields RequiredFieldSource
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(
	repo CustomerRepository,
	groups group.Repository,
	hasher PasswordHasher,
	fields RequiredFieldSource,
	pub event.EventPublisher,
	logger *slog.Logger,
) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if groups == nil {
		panic("group repository cannot be nil")
	}
	if hasher == nil {
		panic("password hasher cannot be nil")
	}
	if fields == nil {
		panic("required field source cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, customer events will not be published")
	}

	return &customerService{
		repo:   repo,
		groups: groups,
		hasher: hasher,
		fields: fields,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:     cust.CustomerID,
		Guest:          cust.Guest,
		Type:           string(cust.Type),
		Email:          cust.Email,
		FirstName:      cust.FirstName,
		LastName:       cust.LastName,
		Active:         cust.Active,
		GroupIDs:       cust.GroupIDs,
		DefaultGroupID: cust.DefaultGroupID,
		UpdatedAt:      cust.UpdatedAt,
	}
}

func (s *customerService) publishCustomerUpdated(ctx context.Context, cust *Customer) {
	if s.pub == nil {
		return
	}
	evt := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerUpdated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer update event", slog.Any("error", err))
	} else {
		s.logger.InfoContext(ctx, "Successfully published customer update event")
	}
}

func (s *customerService) EditCustomer(ctx context.Context, cmd EditCommand) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("customerID", cmd.CustomerID))
	logCtx.InfoContext(ctx, "Attempting to edit customer")

	logCtx.InfoContext(ctx, "Calling repository FindByID to load edit target")
	current, err := s.repo.FindByID(ctx, cmd.CustomerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error loading customer for edit", slog.Any("error", err))
		return nil, fmt.Errorf("cannot load customer %d for edit: %w", cmd.CustomerID, err)
	}

	if err := s.checkEmailUniqueness(ctx, current, cmd); err != nil {
		return nil, err
	}
	if err := s.checkGroupAssignment(ctx, current, cmd); err != nil {
		return nil, err
	}

	merged, err := s.mergeCommand(ctx, *current, cmd)
	if err != nil {
		return nil, err
	}
	logCtx.InfoContext(ctx, "Edit command merged onto in-memory snapshot")

	required := s.fields.RequiredFieldsFor(merged.Type)
	if err := resolveRequiredFields(required, merged); err != nil {
		logCtx.WarnContext(ctx, "Required field resolved to empty after merge", slog.Any("error", err))
		return nil, err
	}

	if err := merged.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Merged customer failed record validation", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}

	logCtx.InfoContext(ctx, "Calling repository Update to persist merged customer")
	if err := s.repo.Update(ctx, &merged); err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.ErrorContext(ctx, "Customer disappeared before update completed")
			return nil, ErrNotFound
		}
		if errors.Is(err, ErrEmailTaken) {
			// Storage-level unique index closed the check-then-act window.
			logCtx.WarnContext(ctx, "Email unique index rejected the write", slog.Any("error", err))
			return nil, err
		}
		logCtx.ErrorContext(ctx, "Repository failed to persist edited customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist edited customer %d: %w", cmd.CustomerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully edited customer, publishing update event")
	s.publishCustomerUpdated(ctx, &merged)
	return &merged, nil
}

// checkEmailUniqueness enforces the registered-email invariant. Guests may
// share an email with anyone, and an unchanged email never conflicts, so the
// check short-circuits in both cases.
func (s *customerService) checkEmailUniqueness(ctx context.Context, current *Customer, cmd EditCommand) error {
	if current.Guest {
		s.logger.DebugContext(ctx, "Skipping email uniqueness check for guest account")
		return nil
	}
	newEmail, ok := cmd.Email.Value()
	if !ok || newEmail == current.Email {
		s.logger.DebugContext(ctx, "Email unset or unchanged, skipping uniqueness check")
		return nil
	}

	other, err := s.repo.FindRegisteredByEmail(ctx, newEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		s.logger.ErrorContext(ctx, "Repository error checking email uniqueness", slog.Any("error", err))
		return fmt.Errorf("cannot check uniqueness of email for customer %d: %w", current.CustomerID, err)
	}
	if other.CustomerID != current.CustomerID {
		s.logger.WarnContext(ctx, "Business rule failed: email already used by another registered account",
			slog.Int64("conflictingCustomerID", other.CustomerID))
		return fmt.Errorf("%w: %s", ErrEmailTaken, newEmail)
	}
	return nil
}

// checkGroupAssignment validates the effective group set against the
// effective default group. Both sides fall back to the stored values when
// the command leaves them unset, since changing either one alone can break
// the membership invariant.
func (s *customerService) checkGroupAssignment(ctx context.Context, current *Customer, cmd EditCommand) error {
	if !cmd.touchesGroups() {
		return nil
	}

	effectiveGroups := cmd.GroupIDs.Or(current.GroupIDs)
	effectiveDefault := cmd.DefaultGroupID.Or(current.DefaultGroupID)

	if newGroups, ok := cmd.GroupIDs.Value(); ok && len(newGroups) > 0 {
		existing, err := s.groups.ExistingIDs(ctx, newGroups)
		if err != nil {
			s.logger.ErrorContext(ctx, "Repository error checking group existence", slog.Any("error", err))
			return fmt.Errorf("cannot verify groups for customer %d: %w", current.CustomerID, err)
		}
		known := make(map[int64]struct{}, len(existing))
		for _, id := range existing {
			known[id] = struct{}{}
		}
		for _, id := range newGroups {
			if _, ok := known[id]; !ok {
				s.logger.WarnContext(ctx, "Business rule failed: assigned group does not exist", slog.Int64("groupID", id))
				return fmt.Errorf("%w: %d", ErrUnknownGroup, id)
			}
		}
	}

	for _, id := range effectiveGroups {
		if id == effectiveDefault {
			return nil
		}
	}
	s.logger.WarnContext(ctx, "Business rule failed: default group not in effective group set",
		slog.Int64("defaultGroupID", effectiveDefault))
	return fmt.Errorf("%w: default group %d", ErrDefaultGroupNotAssigned, effectiveDefault)
}

// mergeCommand produces the merged in-memory snapshot. The plain-text
// password, when present, is replaced by the hashing service's output before
// it ever touches the snapshot.
func (s *customerService) mergeCommand(ctx context.Context, current Customer, cmd EditCommand) (Customer, error) {
	var hashed Optional[string]
	if plaintext, ok := cmd.Password.Value(); ok {
		digest, err := s.hasher.Hash(plaintext)
		if err != nil {
			s.logger.ErrorContext(ctx, "Password hashing failed", slog.Any("error", err))
			return Customer{}, fmt.Errorf("cannot hash password for customer %d: %w", current.CustomerID, err)
		}
		hashed = Some(digest)
	}
	return cmd.applyTo(current, hashed), nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, activeOnly bool) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list customers", slog.Bool("activeOnly", activeOnly))

	customers, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}
