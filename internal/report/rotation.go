// Package report folds the bulk-loaded tables into the read-only views:
// rotation history, harvest calendar, market listing, demand listing and
// the traceability document. Every builder is a pure function over
// in-memory records; the Write* functions render them.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// RotationHistory returns the plot's plantings that have a planting date,
// most recent first.
func RotationHistory(plantings []types.Planting, plotID string) []types.Planting {
	var out []types.Planting
	for _, p := range plantings {
		if p.PlotID == plotID && !p.PlantingDate.IsZero() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlantingDate.After(out[j].PlantingDate)
	})
	return out
}

// WriteRotationHistory renders the history of one plot as a table.
func WriteRotationHistory(w io.Writer, plotCode string, history []types.Planting) error {
	if len(history) == 0 {
		_, err := fmt.Fprintf(w, "Nenhum histórico encontrado para o talhão '%s'.\n", plotCode)
		return err
	}
	fmt.Fprintf(w, "\nHistórico para Talhão '%s':\n", plotCode)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATA PLANTIO\tCULTURA PLANTADA\tCULTURA ANTERIOR\tSTATUS")
	for _, p := range history {
		previous := p.PreviousCrop
		if previous == "" {
			previous = "N/A"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PlantingDate.FormatBR(), p.Crop, previous, p.Status)
	}
	return tw.Flush()
}

// formatQuantity prints a number without trailing zeros.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// producerNames indexes producer names by id.
func producerNames(producers []types.ProducerTree) map[string]string {
	names := make(map[string]string, len(producers))
	for _, p := range producers {
		names[p.ProducerID] = p.Name
	}
	return names
}

// nameOr returns the producer name or "Desconhecido".
func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return "Desconhecido"
}
