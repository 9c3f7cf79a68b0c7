package jobs

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueExports holds report export tasks.
	QueueExports = "exports"
	// QueueMaintenance holds scheduled housekeeping tasks.
	QueueMaintenance = "maintenance"
	// TaskReportExport renders a queued report export.
	TaskReportExport = "report:export"
	// TaskLedgerIntegrity scans recent postings for unbalanced vouchers.
	TaskLedgerIntegrity = "ledger:integrity"
)

const (
	exportMaxRetry = 3
	exportTimeout  = 5 * time.Minute
)

// ReportExportPayload references an export job kept in the export store.
type ReportExportPayload struct {
	ExportID string `json:"export_id"`
}

// NewReportExportTask constructs an Asynq task for the export id.
func NewReportExportTask(exportID string) (*asynq.Task, error) {
	if exportID == "" {
		return nil, errors.New("jobs: export id required")
	}
	data, err := json.Marshal(ReportExportPayload{ExportID: exportID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, data,
		asynq.Queue(QueueExports),
		asynq.MaxRetry(exportMaxRetry),
		asynq.Timeout(exportTimeout),
		asynq.TaskID(exportID),
	), nil
}

// LedgerIntegrityPayload scopes one integrity scan.
type LedgerIntegrityPayload struct {
	Company    string `json:"company,omitempty"`
	WindowDays int    `json:"window_days"`
}

// NewLedgerIntegrityTask constructs the scheduled scan task.
func NewLedgerIntegrityTask(company string, windowDays int) (*asynq.Task, error) {
	data, err := json.Marshal(LedgerIntegrityPayload{Company: company, WindowDays: windowDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data, asynq.Queue(QueueMaintenance), asynq.MaxRetry(1)), nil
}
