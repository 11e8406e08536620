package jobs

import (
	"context"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/service"
	"go.uber.org/zap"
)

// SequenceSyncJobName is the scheduler name of the number sequence sync
const SequenceSyncJobName = "sequence_sync"

const defaultSequenceSyncTimeout = 2 * time.Minute

// SequenceReconciler raises a document counter to match stored documents
type SequenceReconciler interface {
	Reconcile(ctx context.Context, docType domain.DocumentType, source service.LatestNumberSource) (bool, error)
}

// SequenceSyncJob keeps the quotation and invoice counters at or above the
// highest number already stored, so documents written outside the API (for
// example restored from a backup) never collide with newly issued numbers.
type SequenceSyncJob struct {
	numbers SequenceReconciler
	sources map[domain.DocumentType]service.LatestNumberSource
	logger  *zap.Logger
	timeout time.Duration
}

func NewSequenceSyncJob(numbers SequenceReconciler, quotations, invoices service.LatestNumberSource, logger *zap.Logger) *SequenceSyncJob {
	return &SequenceSyncJob{
		numbers: numbers,
		sources: map[domain.DocumentType]service.LatestNumberSource{
			domain.DocumentTypeQuotation: quotations,
			domain.DocumentTypeInvoice:   invoices,
		},
		logger:  logger,
		timeout: defaultSequenceSyncTimeout,
	}
}

// Run reconciles both document types. A failure for one type does not stop the other.
// It returns the number of counters that were raised.
func (j *SequenceSyncJob) Run() int {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	raised := 0
	for _, docType := range []domain.DocumentType{domain.DocumentTypeQuotation, domain.DocumentTypeInvoice} {
		ok, err := j.numbers.Reconcile(ctx, docType, j.sources[docType])
		if err != nil {
			j.logger.Error("sequence sync failed",
				zap.String("documentType", string(docType)),
				zap.Error(err))
			continue
		}
		if ok {
			raised++
		}
	}

	j.logger.Info("sequence sync completed",
		zap.Int("raised", raised),
		zap.Duration("duration", time.Since(start)))
	return raised
}

// RegisterSequenceSyncJob adds the job to the scheduler and, when runAtStartup
// is set, runs it once synchronously first.
func RegisterSequenceSyncJob(scheduler *Scheduler, job *SequenceSyncJob, spec string, runAtStartup bool) error {
	if runAtStartup {
		job.Run()
	}
	return scheduler.AddJob(SequenceSyncJobName, spec, func() { job.Run() })
}
