package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/export"
)

type batchLister interface {
	List(ctx context.Context) ([]models.BatchDetail, error)
}

// ExportService renders the batch roster as CSV or PDF downloads.
type ExportService struct {
	batches batchLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	enabled bool
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(batches batchLister, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		batches: batches,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		enabled: enabled,
		logger:  logger,
	}
}

// Enabled indicates whether export endpoints are active.
func (s *ExportService) Enabled() bool {
	return s != nil && s.enabled
}

// BatchRosterCSV renders every batch as a CSV document.
func (s *ExportService) BatchRosterCSV(ctx context.Context) ([]byte, error) {
	table, err := s.rosterTable(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(*table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return data, nil
}

// BatchRosterPDF renders every batch as a PDF document.
func (s *ExportService) BatchRosterPDF(ctx context.Context) ([]byte, error) {
	table, err := s.rosterTable(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(*table, "Batch Schedule")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return data, nil
}

func (s *ExportService) rosterTable(ctx context.Context) (*export.Table, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, err
	}
	table := &export.Table{
		Columns: []string{"ID", "Course", "Batch", "Timeframe", "Room", "Days", "Teachers", "Active"},
		Rows:    make([][]string, 0, len(batches)),
	}
	for _, b := range batches {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.CourseName,
			b.BatchNumber,
			b.TimeframeLabel,
			b.RoomNumber,
			strings.Join(b.Days, ", "),
			strings.Join(b.TeacherNames, ", "),
			strconv.FormatBool(b.Active),
		})
	}
	return table, nil
}
