// Package sheets reads the subscriber directory out of a Google Sheets
// spreadsheet. The sheet is the source of truth and is read-only from this
// service: every lookup fetches fresh rows, nothing is cached locally.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/acesso-api/internal/config"
	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/pkg/cpf"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Column layout of the subscriber sheet: A name, B CPF, C email, D phone,
// E status, F start date, G end date. Row 1 is the header.
const readRange = "!A:G"

// Directory looks up subscribers in the spreadsheet.
type Directory struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	now           func() time.Time
}

func NewDirectory(ctx context.Context, cfg *config.Config) (*Directory, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.SheetsAPIKey)}
	if cfg.SheetsEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.SheetsEndpoint))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newDirectory(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

func newDirectory(svc *sheetsapi.Service, spreadsheetID, sheetName string) *Directory {
	return &Directory{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		now:           time.Now,
	}
}

// FindByCPF returns the subscriber row matching the given CPF (compared in
// digits-only form). Returns domain.ErrNotFound when no row matches and
// domain.ErrUpstream when the sheets API cannot be reached, so callers can
// tell "unknown CPF" apart from "directory down".
func (d *Directory) FindByCPF(ctx context.Context, id string) (*domain.Subscriber, error) {
	clean := cpf.Normalize(id)
	rows, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}
	// Skip the header row.
	for i := 1; i < len(rows); i++ {
		sub := parseRow(i+1, rows[i])
		if sub.CPF == clean {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("CPF not in subscriber directory: %w", domain.ErrNotFound)
}

// ActiveSubscribers returns every row whose subscription is active right
// now. Used for report broadcast.
func (d *Directory) ActiveSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}
	var active []domain.Subscriber
	for i := 1; i < len(rows); i++ {
		sub := parseRow(i+1, rows[i])
		if sub.Active(d.now()) {
			active = append(active, *sub)
		}
	}
	return active, nil
}

func (d *Directory) fetch(ctx context.Context) ([][]interface{}, error) {
	resp, err := d.svc.Spreadsheets.Values.
		Get(d.spreadsheetID, d.sheetName+readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets values get: %v: %w", err, domain.ErrUpstream)
	}
	return resp.Values, nil
}

// parseRow maps one sheet row to a Subscriber. Short rows are tolerated:
// missing trailing cells read as empty.
func parseRow(rowIndex int, row []interface{}) *domain.Subscriber {
	return &domain.Subscriber{
		Name:      cell(row, 0),
		CPF:       cpf.Normalize(cell(row, 1)),
		Email:     cell(row, 2),
		Phone:     cell(row, 3),
		Status:    cell(row, 4),
		StartDate: parseDate(cell(row, 5)),
		EndDate:   parseDate(cell(row, 6)),
		RowIndex:  rowIndex,
	}
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}

// parseDate accepts the two formats seen in the sheet. Unparseable or
// empty cells come back nil, which Active treats as "no end date".
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
