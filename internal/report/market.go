package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// MarketRow is one offer seen by a buyer: an available harvest or a
// planned one.
type MarketRow struct {
	PlantingID    string
	Crop          string
	Status        types.Status
	ReferenceDate types.Date
	Quantity      *float64
	Unit          string
	Producer      string
	Certified     bool
}

// QuantityText is "---" for planned rows and the harvested quantity (or
// "N/A") for available rows.
func (r MarketRow) QuantityText() string {
	if r.Status != types.StatusAvailable {
		return "---"
	}
	if r.Quantity == nil {
		return "N/A"
	}
	return formatQuantity(*r.Quantity)
}

// UnitText is the unit of an available row with a quantity, else "".
func (r MarketRow) UnitText() string {
	if r.Status != types.StatusAvailable || r.Quantity == nil {
		return ""
	}
	return r.Unit
}

// CertifiedText renders the certification flag.
func (r MarketRow) CertifiedText() string {
	if r.Certified {
		return "Sim"
	}
	return "Não"
}

// MarketListing returns the available and planned plantings annotated
// with producer name and certification, ordered by reference date. Rows
// without a reference date come first.
func MarketListing(plantings []types.Planting, producers []types.ProducerTree, certs map[string]types.Certification) []MarketRow {
	names := producerNames(producers)

	var rows []MarketRow
	for _, p := range plantings {
		if p.Status != types.StatusAvailable && p.Status != types.StatusPlanned {
			continue
		}
		row := MarketRow{
			PlantingID:    p.PlantingID,
			Crop:          p.Crop,
			Status:        p.Status,
			ReferenceDate: p.ReferenceDate(),
			Producer:      nameOr(names, p.ProducerID),
			Certified:     certs[p.ProducerID].Certified,
		}
		if p.Status == types.StatusAvailable {
			row.Quantity = p.HarvestedQuantity
			row.Unit = p.Unit
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		// The zero Date sorts before every real date.
		return rows[i].ReferenceDate.Before(rows[j].ReferenceDate)
	})
	return rows
}

// WriteMarketListing renders the listing as a table.
func WriteMarketListing(w io.Writer, rows []MarketRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum produto disponível ou plantio previsto encontrado.")
		return err
	}
	fmt.Fprintln(w, "Ofertas Disponíveis e Plantios Futuros:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID LOTE/PLANTIO\tCULTURA\tSTATUS\tPREV./REAL COLH.\tQTD.\tUNID.\tPRODUTOR\tCERTIFICADO?")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.PlantingID, r.Crop, r.Status, r.ReferenceDate.FormatBR(),
			r.QuantityText(), r.UnitText(), r.Producer, r.CertifiedText())
	}
	return tw.Flush()
}
