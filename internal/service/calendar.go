package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gizikita/backend/internal/models"
)

const dateLayout = "2006-01-02"

// CalendarDay is one cell of the recap grid.
type CalendarDay struct {
	Date           string             `json:"date"`
	Day            int                `json:"day"`
	Weekday        int                `json:"weekday"` // 0 = Monday
	IsCurrentMonth bool               `json:"is_current_month"`
	Scan           *models.PublicScan `json:"scan,omitempty"`
}

// CalendarWeek is a Monday to Sunday row.
type CalendarWeek struct {
	Days []CalendarDay `json:"days"`
}

// MonthCalendar is the Monday-start grid covering a month.
type MonthCalendar struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Weeks []CalendarWeek `json:"weeks"`
}

// BuildDailyMenuMap keys scans by their calendar date in loc. Scans are
// ordered newest first beforehand, so each day holds its latest scan.
func BuildDailyMenuMap(scans []models.PublicScan, loc *time.Location) map[string]models.PublicScan {
	if loc == nil {
		loc = time.UTC
	}
	sorted := append([]models.PublicScan(nil), scans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScanDate.After(sorted[j].ScanDate)
	})

	out := make(map[string]models.PublicScan, len(sorted))
	for _, scan := range sorted {
		key := scan.ScanDate.In(loc).Format(dateLayout)
		if _, ok := out[key]; !ok {
			out[key] = scan
		}
	}
	return out
}

// gridBounds returns the first and last cell dates of the month grid.
func gridBounds(year, month int) (first, last time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	lead := mondayIndex(start.Weekday())
	trail := 6 - mondayIndex(end.Weekday())
	return start.AddDate(0, 0, -lead), end.AddDate(0, 0, trail)
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// GenerateMonthCalendar lays out the month in weeks of seven cells starting on
// Monday, padding with days of the neighbouring months. Every cell, padding
// included, looks up its scan in menu.
func GenerateMonthCalendar(year, month int, menu map[string]models.PublicScan) (*MonthCalendar, error) {
	if month < 1 || month > 12 {
		return nil, InputError(fmt.Sprintf("invalid month %d", month))
	}
	if year < 1 || year > 9999 {
		return nil, InputError(fmt.Sprintf("invalid year %d", year))
	}

	first, last := gridBounds(year, month)
	cal := &MonthCalendar{Year: year, Month: month}

	var week CalendarWeek
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		cell := CalendarDay{
			Date:           key,
			Day:            d.Day(),
			Weekday:        mondayIndex(d.Weekday()),
			IsCurrentMonth: d.Month() == time.Month(month),
		}
		if scan, ok := menu[key]; ok {
			cell.Scan = &scan
		}
		week.Days = append(week.Days, cell)
		if len(week.Days) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = CalendarWeek{}
		}
	}
	return cal, nil
}

// PublicScanRanger lists public scans inside a time range.
type PublicScanRanger interface {
	ListPublicBetween(ctx context.Context, from, to time.Time) ([]models.PublicScan, error)
}

// RecapService builds the public monthly menu recap.
type RecapService struct {
	scans PublicScanRanger
	loc   *time.Location
	now   func() time.Time
}

func NewRecapService(scans PublicScanRanger, loc *time.Location) *RecapService {
	if loc == nil {
		loc = time.UTC
	}
	return &RecapService{scans: scans, loc: loc, now: time.Now}
}

// CurrentMonth returns the year and month of now in the recap zone.
func (s *RecapService) CurrentMonth() (int, int) {
	now := s.now().In(s.loc)
	return now.Year(), int(now.Month())
}

// MonthRecap returns the calendar for year/month filled with the latest scan of each day.
func (s *RecapService) MonthRecap(ctx context.Context, year, month int) (*MonthCalendar, error) {
	if month < 1 || month > 12 {
		return nil, InputError(fmt.Sprintf("invalid month %d", month))
	}
	first, last := gridBounds(year, month)
	from := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(last.Year(), last.Month(), last.Day()+1, 0, 0, 0, 0, s.loc)

	scans, err := s.scans.ListPublicBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return GenerateMonthCalendar(year, month, BuildDailyMenuMap(scans, s.loc))
}
