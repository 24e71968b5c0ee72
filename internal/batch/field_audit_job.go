package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"customer-engine/internal/domain/customer"
)

// RequiredFieldAuditJob walks every stored customer and reports records whose
// configured required fields are empty. The job never writes; records flagged
// here predate the current configuration and only the edit pipeline may
// change them.
type RequiredFieldAuditJob struct {
	customerRepo customer.CustomerRepository
	fields       customer.RequiredFieldSource
	logger       *slog.Logger
}

func NewRequiredFieldAuditJob(
	customerRepo customer.CustomerRepository,
	fields customer.RequiredFieldSource,
	logger *slog.Logger,
) *RequiredFieldAuditJob {
	if customerRepo == nil || fields == nil || logger == nil {
		panic("RequiredFieldAuditJob dependencies cannot be nil")
	}
	return &RequiredFieldAuditJob{
		customerRepo: customerRepo,
		fields:       fields,
		logger:       logger.With("job", "RequiredFieldAudit"),
	}
}

func (j *RequiredFieldAuditJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting required field audit job.")

	j.logger.DebugContext(ctx, "Fetching all customers from repository.")
	customers, err := j.customerRepo.FindAll(ctx, false)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list customers, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run audit, failed to list customers: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched customers.", slog.Int("count", len(customers)))

	if len(customers) == 0 {
		j.logger.InfoContext(ctx, "No customers found to audit.")
		j.logger.InfoContext(ctx, "Required field audit job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var auditedCount, incompleteCount, guestCount int32

	for _, cust := range customers {
		wg.Add(1)
		go func(current *customer.Customer) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("customerID", current.CustomerID))

			if current.Guest {
				// Guest accounts carry no completeness contract.
				atomic.AddInt32(&guestCount, 1)
				return
			}

			required := j.fields.RequiredFieldsFor(current.Type)
			missing := customer.MissingRequiredFields(required, *current)
			if len(missing) > 0 {
				logCtx.WarnContext(ctx, "Customer record is missing required fields.",
					slog.String("customerType", string(current.Type)),
					slog.Any("missingFields", missing))
				atomic.AddInt32(&incompleteCount, 1)
			} else {
				logCtx.DebugContext(ctx, "Customer record satisfies all required fields.")
			}
			atomic.AddInt32(&auditedCount, 1)
		}(cust)
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("total_customers", len(customers)),
		slog.Int("customers_audited", int(auditedCount)),
		slog.Int("guests_skipped", int(guestCount)),
		slog.Int("incomplete_records", int(incompleteCount)),
	)
	if incompleteCount > 0 {
		summaryLog.WarnContext(ctx, "Required field audit job finished with incomplete records.")
	} else {
		summaryLog.InfoContext(ctx, "Required field audit job finished, all records complete.")
	}
	return nil
}
