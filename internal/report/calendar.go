package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// monthNames are the Portuguese month names used in headings.
var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// CalendarEntry is one expected harvest.
type CalendarEntry struct {
	Date     types.Date
	Crop     string
	Producer string
}

// CalendarMonth groups the expected harvests of one month.
type CalendarMonth struct {
	Year    int
	Month   time.Month
	Entries []CalendarEntry
}

// Heading renders the month as "Setembro/2024".
func (m CalendarMonth) Heading() string {
	return fmt.Sprintf("%s/%d", monthNames[m.Month-1], m.Year)
}

// HarvestCalendar groups planned plantings with an expected harvest date
// by month. Months and the entries inside them are in ascending date order.
func HarvestCalendar(plantings []types.Planting, producers []types.ProducerTree) []CalendarMonth {
	names := producerNames(producers)

	var entries []CalendarEntry
	for _, p := range plantings {
		if p.Status != types.StatusPlanned || p.ExpectedHarvestDate.IsZero() {
			continue
		}
		entries = append(entries, CalendarEntry{
			Date:     p.ExpectedHarvestDate,
			Crop:     p.Crop,
			Producer: nameOr(names, p.ProducerID),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	var months []CalendarMonth
	for _, e := range entries {
		n := len(months)
		if n == 0 || months[n-1].Year != e.Date.Year() || months[n-1].Month != e.Date.Month() {
			months = append(months, CalendarMonth{Year: e.Date.Year(), Month: e.Date.Month()})
			n++
		}
		months[n-1].Entries = append(months[n-1].Entries, e)
	}
	return months
}

// WriteHarvestCalendar renders the calendar month by month.
func WriteHarvestCalendar(w io.Writer, months []CalendarMonth) error {
	if len(months) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma colheita prevista encontrada.")
		return err
	}
	fmt.Fprintln(w, "\nColheitas Planejadas por Mês:")
	for _, m := range months {
		fmt.Fprintf(w, "\n--- %s ---\n", m.Heading())
		for _, e := range m.Entries {
			fmt.Fprintf(w, "  - %02d/%02d: %s (Produtor: %s)\n", e.Date.Day(), int(e.Date.Month()), e.Crop, e.Producer)
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 35))
	return err
}

