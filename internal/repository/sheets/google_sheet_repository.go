package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/smartbell/internal/config"
)

var errEmptyRange = errors.New("sheet range must not be empty")

// Repository is the spreadsheet surface the production ledger needs.
type Repository interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRows(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository talks to a single spreadsheet through the Sheets v4 API.
type GoogleSheetRepository struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with a service-account credentials file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	logger.Info("sheets client ready", zap.String("spreadsheet_id", cfg.SpreadsheetID))
	return &GoogleSheetRepository{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows appends rows after the last filled row of sheetRange in a single request.
// Values are written RAW so tags like "007" keep their leading zeros.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return errEmptyRange
	}
	if len(rows) == 0 {
		return nil
	}

	resp, err := r.values.Append(r.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows into %s: %w", len(rows), sheetRange, err)
	}

	updated := ""
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	r.logger.Debug("rows appended", zap.String("range", updated), zap.Int("rows", len(rows)))
	return nil
}

// ReadRows returns the raw cell values of sheetRange. Numbers come back as
// numbers and dates as their formatted text.
func (r *GoogleSheetRepository) ReadRows(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, errEmptyRange
	}

	resp, err := r.values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}
