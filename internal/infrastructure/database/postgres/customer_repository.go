package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-engine/internal/domain/customer"
	"customer-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

const errMsgFormat = "%w: %w"

// registeredEmailConstraint is the partial unique index on customers(email)
// WHERE is_guest = false. It is the storage-side close of the
// check-then-act window in the edit pipeline's email uniqueness check.
const registeredEmailConstraint = "uq_customers_registered_email"

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

const customerColumns = `id, is_guest, type, email, password_hash, first_name, last_name, gender,
       birthday, active, newsletter, partner_offers, group_ids, default_group_id,
       company, vat_id, website, credit_limit, risk_class, created_at, updated_at`

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.CustomerID,
		&cust.Guest,
		&cust.Type,
		&cust.Email,
		&cust.PasswordHash,
		&cust.FirstName,
		&cust.LastName,
		&cust.Gender,
		&cust.Birthday,
		&cust.Active,
		&cust.Newsletter,
		&cust.PartnerOffers,
		&cust.GroupIDs,
		&cust.DefaultGroupID,
		&cust.Business.Company,
		&cust.Business.VATID,
		&cust.Business.Website,
		&cust.Business.CreditLimit,
		&cust.Business.RiskClass,
		&cust.CreateDate,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find customer by ID", slog.Int64("customerID", customerID))

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Customer found successfully")
	return cust, nil
}

func (r *CustomerRepository) FindRegisteredByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find registered customer by email")

	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE email = $1 AND is_guest = false`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by email", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by email: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Registered customer found by email", slog.Int64("customerID", cust.CustomerID))
	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, activeOnly bool) ([]*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find all customers")

	query := `
        SELECT ` + customerColumns + `
        FROM customers`
	args := []any{}
	if activeOnly {
		query += " WHERE active = $1"
		args = append(args, true)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.DebugContext(ctx, "Attempting to update customer", slog.Int64("customerID", cust.CustomerID))

	query := `
        UPDATE customers
        SET type = $1,
            email = $2,
            password_hash = $3,
            first_name = $4,
            last_name = $5,
            gender = $6,
            birthday = $7,
            active = $8,
            newsletter = $9,
            partner_offers = $10,
            group_ids = $11,
            default_group_id = $12,
            company = $13,
            vat_id = $14,
            website = $15,
            credit_limit = $16,
            risk_class = $17,
            updated_at = NOW()
        WHERE id = $18`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.Type,
		cust.Email,
		cust.PasswordHash,
		cust.FirstName,
		cust.LastName,
		cust.Gender,
		cust.Birthday,
		cust.Active,
		cust.Newsletter,
		cust.PartnerOffers,
		cust.GroupIDs,
		cust.DefaultGroupID,
		cust.Business.Company,
		cust.Business.VATID,
		cust.Business.Website,
		cust.Business.CreditLimit,
		cust.Business.RiskClass,
		cust.CustomerID,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, customer.ErrEmailTaken) {
			r.logger.WarnContext(ctx, "Failed to update customer due to registered email unique index", slog.Any("error", err))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	r.logger.DebugContext(ctx, "Customer updated successfully")
	return nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return customer.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			if pgErr.ConstraintName == registeredEmailConstraint {
				return fmt.Errorf("%w: %s", customer.ErrEmailTaken, pgErr.Detail)
			}
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
