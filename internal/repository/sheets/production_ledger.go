package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

const (
	productionRange  = "Production!A:H"
	productionHeader = "Production!A1:H1"
	ledgerDate       = "2006-01-02"
)

var ledgerColumns = []interface{}{"Date", "Shift", "Tag", "Liters", "Quality", "Notes", "Cattle ID", "Ranch ID"}

// ProductionLedger appends every recorded milking to a spreadsheet so the full
// history survives beyond the in-memory recent list.
type ProductionLedger struct {
	repo Repository

	mu            sync.Mutex
	headerChecked bool
}

// NewProductionLedger wraps a sheet repository.
func NewProductionLedger(repo Repository) *ProductionLedger {
	return &ProductionLedger{repo: repo}
}

// AppendProduction writes one row: date, shift, animal tag, liters, quality, notes,
// cattle id, ranch id. The first write to an empty sheet also writes the header row.
func (l *ProductionLedger) AppendProduction(ctx context.Context, p models.Production, cattleTag string) error {
	row := []interface{}{
		p.Date.Format(ledgerDate),
		string(p.Shift),
		cattleTag,
		p.Liters,
		p.Quality,
		p.Notes,
		p.CattleID,
		p.RanchID,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rows := [][]interface{}{row}
	if !l.headerChecked {
		existing, err := l.repo.ReadRows(ctx, productionHeader)
		if err != nil {
			return fmt.Errorf("check ledger header: %w", err)
		}
		if len(existing) == 0 {
			rows = [][]interface{}{ledgerColumns, row}
		}
	}

	if err := l.repo.AppendRows(ctx, productionRange, rows); err != nil {
		return fmt.Errorf("append production %s: %w", p.ID, err)
	}
	l.headerChecked = true
	return nil
}

// LitersBetween sums the ledger liters of rows dated within [start, end].
// Rows that cannot be parsed, the header included, are skipped.
func (l *ProductionLedger) LitersBetween(ctx context.Context, start, end time.Time) (float64, error) {
	rows, err := l.repo.ReadRows(ctx, productionRange)
	if err != nil {
		return 0, fmt.Errorf("load production ledger: %w", err)
	}

	startDay := start.Format(ledgerDate)
	endDay := end.Format(ledgerDate)

	var total float64
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		day := fmt.Sprint(row[0])
		if len(day) > len(ledgerDate) {
			day = day[:len(ledgerDate)]
		}
		if _, err := time.Parse(ledgerDate, day); err != nil {
			continue
		}
		// ISO dates compare correctly as strings.
		if day < startDay || day > endDay {
			continue
		}
		liters, err := cellFloat(row[3])
		if err != nil {
			continue
		}
		total += liters
	}
	return total, nil
}

func cellFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return strconv.ParseFloat(fmt.Sprint(v), 64)
	}
}
