package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/sheets/v4"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

// ValuesReader reads a cell range from a spreadsheet.
type ValuesReader interface {
	Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

// SheetsReader backs ValuesReader with the Google Sheets API.
type SheetsReader struct {
	svc *sheets.Service
}

func NewSheetsReader(svc *sheets.Service) *SheetsReader {
	return &SheetsReader{svc: svc}
}

func (r *SheetsReader) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Collector reads the revenue sheet for the current month and derives
// day-over-day, trailing-average and month-to-date statistics.
type Collector struct {
	reader        ValuesReader
	spreadsheetID string
	monthlyTarget int64
	now           func() time.Time
}

func NewCollector(reader ValuesReader, spreadsheetID string, monthlyTarget int64) *Collector {
	return &Collector{
		reader:        reader,
		spreadsheetID: spreadsheetID,
		monthlyTarget: monthlyTarget,
		now:           func() time.Time { return time.Now().In(seoul) },
	}
}

var seoul = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*3600)
	}
	return loc
}

// Collect returns the most recent `days` daily rows plus month statistics.
// A sheet with no rows for the current month yields (nil, nil); the caller
// renders the no-data placeholder for a nil report.
func (c *Collector) Collect(ctx context.Context, days int) (*domain.RevenueReport, error) {
	now := c.now()

	// The sheet keeps one tab per month, named "N월" by convention.
	tab := fmt.Sprintf("%d월", int(now.Month()))
	readRange := fmt.Sprintf("%s!A1:AZ200", tab)

	values, err := c.reader.Read(ctx, c.spreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", readRange, err)
	}
	if len(values) < 2 {
		return nil, nil
	}

	header := make([]string, len(values[0]))
	for i := range values[0] {
		header[i] = cellString(values[0], i)
	}
	schema, err := detectSchema(header)
	if err != nil {
		return nil, err
	}

	var all []domain.RevenueDay
	for _, row := range values[1:] {
		date := cellString(row, schema.Date.Index)
		if !isValidDateRow(date) {
			continue
		}
		all = append(all, buildDay(date, row, schema))
	}
	if len(all) == 0 {
		return nil, nil
	}

	report := deriveStats(all, c.monthlyTarget, now)

	// Keep the most recent `days` rows, newest first.
	if days > len(all) {
		days = len(all)
	}
	recent := make([]domain.RevenueDay, 0, days)
	for i := len(all) - 1; i >= len(all)-days; i-- {
		recent = append(recent, all[i])
	}
	report.Days = recent

	zerolog.Ctx(ctx).Debug().
		Int("rows", len(all)).
		Int("returned", len(recent)).
		Int64("mtd", report.MonthToDate).
		Msg("revenue sheet scanned")

	return report, nil
}

// buildDay constructs one row's RevenueDay. The total always equals the sum
// of the breakdown: a positive gap between the sheet's total column and the
// matched category columns is booked under 기타, and a sheet total below the
// category sum is discarded in favor of the sum.
func buildDay(date string, row []interface{}, schema *columnSchema) domain.RevenueDay {
	breakdown := make(map[string]int64)
	var sum int64
	for _, cat := range schema.Categories {
		amount := parseAmount(cellString(row, cat.Index))
		if amount == 0 {
			continue
		}
		breakdown[cat.Name] += amount
		sum += amount
	}

	total := parseAmount(cellString(row, schema.Total.Index))
	switch {
	case total > sum:
		breakdown["기타"] += total - sum
	case total < sum:
		total = sum
	}

	return domain.RevenueDay{
		Date:      date,
		Total:     total,
		Breakdown: breakdown,
		HasData:   total > 0,
	}
}

// deriveStats computes statistics over HasData days only; present-but-empty
// rows are excluded.
func deriveStats(all []domain.RevenueDay, target int64, now time.Time) *domain.RevenueReport {
	var dataDays []domain.RevenueDay
	var mtd int64
	for _, d := range all {
		if d.HasData {
			dataDays = append(dataDays, d)
			mtd += d.Total
		}
	}

	report := &domain.RevenueReport{
		MonthToDate:   mtd,
		MonthlyTarget: target,
	}
	if target > 0 {
		report.AttainmentPct = float64(mtd) / float64(target) * 100
	}

	if n := len(dataDays); n >= 2 {
		prev := dataDays[n-2].Total
		if prev > 0 {
			pct := (float64(dataDays[n-1].Total) - float64(prev)) / float64(prev) * 100
			report.DayOverDayPct = &pct
		}
	}

	window := len(dataDays)
	if window > 7 {
		window = 7
	}
	if window > 0 {
		var sum int64
		for _, d := range dataDays[len(dataDays)-window:] {
			sum += d.Total
		}
		report.TrailingAvg = sum / int64(window)
	}

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	remaining := daysInMonth - now.Day()
	if remaining < 0 {
		remaining = 0
	}
	report.ProjectedMonthEnd = mtd + report.TrailingAvg*int64(remaining)

	return report
}

func cellString(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return fmt.Sprintf("%v", row[idx])
}
