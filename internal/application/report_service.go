package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

const ChartTitle = "Event Category Distribution"

// ExportHeader is the column order of the registration exports.
var ExportHeader = []string{
	"Username", "College Email", "Registration Number", "Branch", "Department", "Year of Study",
	"Event Title", "Category", "Date", "Venue", "Attendance", "Verified At", "Verified By", "Registration ID",
}

type CategoryCount struct {
	Category entity.Category
	Count    int
}

type Analytics struct {
	Stats      entity.CatalogStats
	Categories []CategoryCount
	ChartPNG   []byte
}

// ReportService serves the staff-only read models. Nothing here writes.
type ReportService struct {
	Events        repo.EventRepository
	Registrations repo.RegistrationRepository
}

func NewReportService(events repo.EventRepository, regs repo.RegistrationRepository) *ReportService {
	return &ReportService{Events: events, Registrations: regs}
}

// Analytics returns the totals and per-category counts. The chart is left
// empty when there are no events.
func (s *ReportService) Analytics(ctx context.Context, p *Principal) (*Analytics, error) {
	if err := requireStaff(p); err != nil {
		return nil, err
	}
	stats, err := s.Events.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := s.categoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := &Analytics{Stats: stats, Categories: cats}
	if len(cats) > 0 {
		if out.ChartPNG, err = chartFor(cats); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Chart renders the category bar chart alone.
func (s *ReportService) Chart(ctx context.Context, p *Principal) ([]byte, error) {
	if err := requireStaff(p); err != nil {
		return nil, err
	}
	cats, err := s.categoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	return chartFor(cats)
}

func (s *ReportService) categoryCounts(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.Events.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	var out []CategoryCount
	for _, c := range entity.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	return out, nil
}

func chartFor(cats []CategoryCount) ([]byte, error) {
	bars := make([]helpers.Bar, 0, len(cats))
	for _, c := range cats {
		bars = append(bars, helpers.Bar{Label: c.Category.Label(), Value: float64(c.Count)})
	}
	png, err := helpers.BarChartPNG(ChartTitle, bars)
	if errors.Is(err, helpers.ErrEmptyChart) {
		return nil, ErrNoChartData
	}
	return png, err
}

// ExportRows returns every registration as export rows, ordered by id.
func (s *ReportService) ExportRows(ctx context.Context, p *Principal) ([][]string, error) {
	if err := requireStaff(p); err != nil {
		return nil, err
	}
	regs, err := s.Registrations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(regs))
	for i := range regs {
		rows = append(rows, exportRow(&regs[i]))
	}
	return rows, nil
}

func exportRow(r *entity.RegistrationDetail) []string {
	row := make([]string, 0, len(ExportHeader))
	row = append(row, r.Username)
	if pr := r.Profile; pr != nil {
		year := ""
		if pr.YearOfStudy > 0 {
			year = strconv.Itoa(pr.YearOfStudy)
		}
		row = append(row, pr.CollegeEmail, pr.RegistrationNumber, pr.Branch, pr.Department, year)
	} else {
		row = append(row, "", "", "", "", "")
	}
	verifiedAt := ""
	if r.VerifiedAt != nil {
		verifiedAt = r.VerifiedAt.UTC().Format(time.RFC3339)
	}
	return append(row,
		r.Event.Title,
		string(r.Event.Category),
		r.Event.Date.UTC().Format(time.RFC3339),
		r.Event.Venue,
		strconv.FormatBool(r.Attended),
		verifiedAt,
		r.VerifiedByUsername,
		r.Token,
	)
}

// ExportCSV writes the registrations table as CSV. With no registrations
// only the header is written.
func (s *ReportService) ExportCSV(ctx context.Context, p *Principal) ([]byte, error) {
	rows, err := s.ExportRows(ctx, p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const exportSheet = "Registrations"

// ExportXLSX writes the same table as a workbook with a bold header row.
func (s *ReportService) ExportXLSX(ctx context.Context, p *Principal) ([]byte, error) {
	rows, err := s.ExportRows(ctx, p)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := writeSheetRow(f, 1, ExportHeader); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
		_ = f.SetCellStyle(exportSheet, "A1", end, style)
	}
	for i, row := range rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
