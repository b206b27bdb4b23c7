package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// ShortID truncates an id to the eight characters shown in listings.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// WriteDemands renders the demands in the order given.
func WriteDemands(w io.Writer, demands []types.Demand) error {
	if len(demands) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma demanda registrada.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID DEMANDA\tCULTURA\tQTD.\tUNID.\tNECESSIDADE\tREGISTRADO EM")
	for _, d := range demands {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ShortID(d.DemandID), d.Crop, formatQuantity(d.Quantity), d.Unit,
			d.NeededBy.FormatBR(), types.DateOf(d.RegisteredAt).FormatBR())
	}
	return tw.Flush()
}
