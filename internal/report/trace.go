package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// TraceInputLimit is how many input applications the document lists.
const TraceInputLimit = 5

// Trace gathers what the traceability document shows for one planting.
type Trace struct {
	Planting      types.Planting
	Producer      types.Producer
	Certification types.Certification
	Plot          types.Plot
	Inputs        []types.InputRecord
	// ReferenceDate bounds the inputs: the actual harvest date when there
	// is one, else today.
	ReferenceDate types.Date
}

// BuildTrace selects the most recent input applications on the planting's
// plot up to the reference date.
func BuildTrace(planting types.Planting, producer types.Producer, cert types.Certification, plot types.Plot, inputs []types.InputRecord, today types.Date) Trace {
	ref := planting.ActualHarvestDate
	if ref.IsZero() {
		ref = today
	}

	var relevant []types.InputRecord
	for _, r := range inputs {
		if r.PlotID != planting.PlotID || r.AppliedOn.IsZero() || r.AppliedOn.After(ref) {
			continue
		}
		relevant = append(relevant, r)
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].AppliedOn.After(relevant[j].AppliedOn)
	})
	if len(relevant) > TraceInputLimit {
		relevant = relevant[:TraceInputLimit]
	}

	return Trace{
		Planting:      planting,
		Producer:      producer,
		Certification: cert,
		Plot:          plot,
		Inputs:        relevant,
		ReferenceDate: ref,
	}
}

// TraceFileName is rastreabilidade_<first 8 characters of the planting id>.txt.
func TraceFileName(plantingID string) string {
	short := plantingID
	if len(short) > 8 {
		short = short[:8]
	}
	return "rastreabilidade_" + short + ".txt"
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// WriteTrace renders the document. generatedAt stamps the footer.
func WriteTrace(w io.Writer, t Trace, generatedAt time.Time) error {
	sep := strings.Repeat("-", 30)
	p := t.Planting

	var b bytes.Buffer
	b.WriteString("--- Relatório de Rastreabilidade Simplificado ---\n\n")
	fmt.Fprintf(&b, "ID Lote/Plantio: %s\n", p.PlantingID)
	fmt.Fprintf(&b, "Cultura: %s\n", orDefault(p.Crop, "N/A"))
	fmt.Fprintf(&b, "Status Atual: %s\n", p.Status)
	if p.Status == types.StatusAvailable {
		quantity := "N/A"
		if p.HarvestedQuantity != nil {
			quantity = formatQuantity(*p.HarvestedQuantity)
		}
		fmt.Fprintf(&b, "Data da Colheita: %s\n", p.ActualHarvestDate.FormatBR())
		fmt.Fprintf(&b, "Quantidade Colhida: %s %s\n", quantity, p.Unit)
	} else {
		fmt.Fprintf(&b, "Data Prev. Colheita: %s\n", p.ExpectedHarvestDate.FormatBR())
	}
	fmt.Fprintf(&b, "Data do Plantio: %s\n", p.PlantingDate.FormatBR())

	fmt.Fprintf(&b, "%s\nDados do Produtor:\n", sep)
	fmt.Fprintf(&b, "  ID: %s\n  Nome: %s\n", p.ProducerID, orDefault(t.Producer.Name, "N/A"))
	fmt.Fprintf(&b, "  Localização: %s\n  Associação: %s\n", orDefault(t.Producer.Location, "N/A"), orDefault(t.Producer.Association, "Nenhuma"))
	certified := "Não"
	if t.Certification.Certified {
		certified = "Sim"
	}
	fmt.Fprintf(&b, "  Certificado Orgânico: %s\n", certified)

	fmt.Fprintf(&b, "%s\nDados do Talhão de Origem:\n", sep)
	fmt.Fprintf(&b, "  ID Talhão (Produtor): %s\n  ID Único (Sistema): %s\n", orDefault(t.Plot.Code, "N/A"), p.PlotID)
	area := "N/A"
	if t.Plot.PlotID != "" {
		area = formatQuantity(t.Plot.AreaHa)
	}
	fmt.Fprintf(&b, "  Tamanho: %s ha\n  Tipo de Solo: %s\n", area, orDefault(t.Plot.SoilType, "N/A"))

	fmt.Fprintf(&b, "%s\nHistórico Recente de Insumos Orgânicos (Neste Talhão):\n", sep)
	if len(t.Inputs) == 0 {
		b.WriteString("  Nenhum registro de insumo encontrado.\n")
	}
	for _, r := range t.Inputs {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", r.AppliedOn.FormatBR(), r.InputType, orDefault(r.Quantity, "N/A"))
	}

	fmt.Fprintf(&b, "%s\nObservações do Plantio: %s\n\n", sep, orDefault(p.Notes, "Nenhuma"))
	fmt.Fprintf(&b, "Relatório gerado em: %s\n", generatedAt.Format("02/01/2006 15:04:05"))

	_, err := w.Write(b.Bytes())
	return err
}

// SaveTrace writes the document into dir and returns the file path.
func SaveTrace(dir string, t Trace, generatedAt time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, TraceFileName(t.Planting.PlantingID))

	var b bytes.Buffer
	if err := WriteTrace(&b, t, generatedAt); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
