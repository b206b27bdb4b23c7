package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

func qty(v float64) *float64 { return &v }

func d(y int, m time.Month, day int) types.Date { return types.NewDate(y, m, day) }

var producers = []types.ProducerTree{
	{Producer: types.Producer{ProducerID: "P1", Name: "Farm A", Location: "Registro", Association: "APAVR"}},
	{Producer: types.Producer{ProducerID: "P2", Name: "Sítio B", Location: "Iguape"}},
}

var certs = map[string]types.Certification{
	"P1": {ProducerID: "P1", Certified: true},
	"P2": {ProducerID: "P2"},
}

func samplePlantings() []types.Planting {
	return []types.Planting{
		{PlantingID: "aaaa1111-x", ProducerID: "P1", PlotID: "plot-1", Crop: "Corn", Status: types.StatusPlanned,
			PlantingDate: d(2024, time.May, 1), ExpectedHarvestDate: d(2024, time.September, 1), PreviousCrop: types.NoPreviousCrop},
		{PlantingID: "bbbb2222-x", ProducerID: "P1", PlotID: "plot-1", Crop: "Feijão", Status: types.StatusAvailable,
			PlantingDate: d(2024, time.February, 1), ExpectedHarvestDate: d(2024, time.April, 20),
			ActualHarvestDate: d(2024, time.April, 25), HarvestedQuantity: qty(320.5), Unit: "kg", PreviousCrop: "Milho"},
		{PlantingID: "cccc3333-x", ProducerID: "P2", PlotID: "plot-2", Crop: "Alface", Status: types.StatusPlanned,
			PlantingDate: d(2024, time.August, 3), ExpectedHarvestDate: d(2024, time.September, 20)},
		{PlantingID: "dddd4444-x", ProducerID: "P2", PlotID: "plot-2", Crop: "Banana", Status: types.StatusSold,
			PlantingDate: d(2023, time.March, 1), ExpectedHarvestDate: d(2024, time.March, 1),
			ActualHarvestDate: d(2024, time.March, 2), HarvestedQuantity: qty(2), Unit: "t"},
		{PlantingID: "eeee5555-x", ProducerID: "P9", PlotID: "plot-9", Crop: "Mandioca", Status: types.StatusPlanned,
			PlantingDate: d(2024, time.July, 1), ExpectedHarvestDate: d(2024, time.August, 15)},
		{PlantingID: "ffff6666-x", ProducerID: "P2", PlotID: "plot-2", Crop: "Rúcula", Status: types.StatusAvailable},
	}
}

func TestRotationHistory(t *testing.T) {
	plantings := append(samplePlantings(), types.Planting{PlantingID: "no-date", PlotID: "plot-1", Crop: "Sem data", Status: types.StatusCancelled})

	history := RotationHistory(plantings, "plot-1")
	require.Len(t, history, 2)
	assert.Equal(t, "Corn", history[0].Crop)
	assert.Equal(t, "Feijão", history[1].Crop)

	var out bytes.Buffer
	require.NoError(t, WriteRotationHistory(&out, "T01", history))
	assert.Contains(t, out.String(), "Histórico para Talhão 'T01'")
	assert.Contains(t, out.String(), "01/05/2024")
	assert.Contains(t, out.String(), types.NoPreviousCrop)

	out.Reset()
	require.NoError(t, WriteRotationHistory(&out, "T99", nil))
	assert.Contains(t, out.String(), "Nenhum histórico encontrado para o talhão 'T99'")
}

func TestHarvestCalendar(t *testing.T) {
	months := HarvestCalendar(samplePlantings(), producers)
	require.Len(t, months, 2)

	assert.Equal(t, "Agosto/2024", months[0].Heading())
	require.Len(t, months[0].Entries, 1)
	assert.Equal(t, "Desconhecido", months[0].Entries[0].Producer)

	assert.Equal(t, "Setembro/2024", months[1].Heading())
	require.Len(t, months[1].Entries, 2)
	assert.Equal(t, "Corn", months[1].Entries[0].Crop)
	assert.Equal(t, "Alface", months[1].Entries[1].Crop)
	assert.Equal(t, "Sítio B", months[1].Entries[1].Producer)

	var out bytes.Buffer
	require.NoError(t, WriteHarvestCalendar(&out, months))
	assert.Contains(t, out.String(), "--- Setembro/2024 ---")
	assert.Contains(t, out.String(), "  - 01/09: Corn (Produtor: Farm A)")

	out.Reset()
	require.NoError(t, WriteHarvestCalendar(&out, HarvestCalendar(nil, nil)))
	assert.Contains(t, out.String(), "Nenhuma colheita prevista encontrada.")
}

func TestMarketListing(t *testing.T) {
	rows := MarketListing(samplePlantings(), producers, certs)
	require.Len(t, rows, 5, "sold rows are not offered")

	// Available without a harvest date has no reference date and comes first.
	assert.Equal(t, "Rúcula", rows[0].Crop)
	assert.Equal(t, "N/A", rows[0].ReferenceDate.FormatBR())
	assert.Equal(t, "N/A", rows[0].QuantityText())
	assert.Equal(t, "", rows[0].UnitText())

	assert.Equal(t, "Feijão", rows[1].Crop)
	assert.Equal(t, "25/04/2024", rows[1].ReferenceDate.FormatBR())
	assert.Equal(t, "320.5", rows[1].QuantityText())
	assert.Equal(t, "kg", rows[1].UnitText())
	assert.Equal(t, "Sim", rows[1].CertifiedText())

	for _, r := range rows {
		if r.Status == types.StatusPlanned {
			assert.Equal(t, "---", r.QuantityText(), r.Crop)
			assert.Equal(t, "", r.UnitText(), r.Crop)
		}
	}
	assert.Equal(t, []string{"Mandioca", "Corn", "Alface"}, []string{rows[2].Crop, rows[3].Crop, rows[4].Crop})
	assert.Equal(t, "Desconhecido", rows[2].Producer)
	assert.Equal(t, "Não", rows[4].CertifiedText())

	var out bytes.Buffer
	require.NoError(t, WriteMarketListing(&out, rows))
	assert.Contains(t, out.String(), "CERTIFICADO?")
	assert.Contains(t, out.String(), "bbbb2222-x")

	out.Reset()
	require.NoError(t, WriteMarketListing(&out, nil))
	assert.Contains(t, out.String(), "Nenhum produto disponível")
}

func TestWriteMarketXLSX(t *testing.T) {
	rows := MarketListing(samplePlantings(), producers, certs)
	path := filepath.Join(t.TempDir(), "mercado.xlsx")
	require.NoError(t, WriteMarketXLSX(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{marketSheet}, f.GetSheetList())
	header, err := f.GetCellValue(marketSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID Lote/Plantio", header)

	crop, err := f.GetCellValue(marketSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Feijão", crop)
	quantity, err := f.GetCellValue(marketSheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "320.5", quantity)
	planned, err := f.GetCellValue(marketSheet, "E4")
	require.NoError(t, err)
	assert.Equal(t, "---", planned)

	all, err := f.GetRows(marketSheet)
	require.NoError(t, err)
	assert.Len(t, all, len(rows)+1)
}

func TestBuildTrace(t *testing.T) {
	plantings := samplePlantings()
	var inputs []types.InputRecord
	for day := 1; day <= 8; day++ {
		inputs = append(inputs, types.InputRecord{
			RecordID: "r", PlotID: "plot-1", AppliedOn: d(2024, time.April, day*3), InputType: "Composto", Quantity: "1 t",
		})
	}
	inputs = append(inputs, types.InputRecord{PlotID: "plot-2", AppliedOn: d(2024, time.April, 2), InputType: "Outro talhão"})

	t.Run("harvested planting uses the actual harvest date", func(t *testing.T) {
		tr := BuildTrace(plantings[1], producers[0].Producer, certs["P1"], types.Plot{PlotID: "plot-1", Code: "T01", AreaHa: 5}, inputs, d(2024, time.December, 1))
		assert.Equal(t, "25/04/2024", tr.ReferenceDate.FormatBR())
		require.Len(t, tr.Inputs, TraceInputLimit)
		assert.Equal(t, "24/04/2024", tr.Inputs[0].AppliedOn.FormatBR())
		assert.Equal(t, "12/04/2024", tr.Inputs[4].AppliedOn.FormatBR())
	})

	t.Run("planned planting uses today", func(t *testing.T) {
		tr := BuildTrace(plantings[0], producers[0].Producer, certs["P1"], types.Plot{PlotID: "plot-1"}, inputs, d(2024, time.April, 7))
		require.Len(t, tr.Inputs, 2)
		assert.Equal(t, "06/04/2024", tr.Inputs[0].AppliedOn.FormatBR())
	})
}

func TestSaveTrace(t *testing.T) {
	dir := t.TempDir()
	plantings := samplePlantings()
	inputs := []types.InputRecord{{PlotID: "plot-1", AppliedOn: d(2024, time.April, 10), InputType: "Biofertilizante", Quantity: "20 L"}}
	tr := BuildTrace(plantings[1], producers[0].Producer, certs["P1"],
		types.Plot{PlotID: "plot-1", Code: "T01", AreaHa: 5, SoilType: "Argiloso"}, inputs, d(2024, time.May, 1))

	path, err := SaveTrace(dir, tr, time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rastreabilidade_bbbb2222.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)

	order := []string{
		"--- Relatório de Rastreabilidade Simplificado ---",
		"ID Lote/Plantio: bbbb2222-x",
		"Status Atual: Disponível",
		"Data da Colheita: 25/04/2024",
		"Quantidade Colhida: 320.5 kg",
		"Data do Plantio: 01/02/2024",
		"Dados do Produtor:",
		"  Associação: APAVR",
		"  Certificado Orgânico: Sim",
		"Dados do Talhão de Origem:",
		"  ID Talhão (Produtor): T01",
		"  Tamanho: 5 ha",
		"  Tipo de Solo: Argiloso",
		"Histórico Recente de Insumos Orgânicos (Neste Talhão):",
		"  - 10/04/2024: Biofertilizante (20 L)",
		"Observações do Plantio: Nenhuma",
		"Relatório gerado em: 01/05/2024 10:30:00",
	}
	pos := 0
	for _, want := range order {
		i := strings.Index(doc[pos:], want)
		require.GreaterOrEqual(t, i, 0, "missing or out of order: %q", want)
		pos += i + len(want)
	}
}

func TestWriteTracePlannedWithoutInputs(t *testing.T) {
	p := samplePlantings()[0]
	tr := BuildTrace(p, types.Producer{ProducerID: "P1", Name: "Farm A"}, types.Certification{}, types.Plot{}, nil, d(2024, time.May, 2))

	var out bytes.Buffer
	require.NoError(t, WriteTrace(&out, tr, time.Now()))
	assert.Contains(t, out.String(), "Data Prev. Colheita: 01/09/2024")
	assert.Contains(t, out.String(), "Nenhum registro de insumo encontrado.")
	assert.Contains(t, out.String(), "Certificado Orgânico: Não")
	assert.Contains(t, out.String(), "Tamanho: N/A ha")
	assert.NotContains(t, out.String(), "Quantidade Colhida")
}

func TestWriteDemands(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteDemands(&out, []types.Demand{{
		DemandID: "12345678-abcd", Crop: "Alface", Quantity: 200, Unit: "maços",
		NeededBy: d(2024, time.July, 1), RegisteredAt: time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC),
	}}))
	assert.Contains(t, out.String(), "12345678 ")
	assert.NotContains(t, out.String(), "12345678-abcd")
	assert.Contains(t, out.String(), "01/07/2024")
	assert.Contains(t, out.String(), "02/05/2024")

	out.Reset()
	require.NoError(t, WriteDemands(&out, nil))
	assert.Contains(t, out.String(), "Nenhuma demanda registrada.")
}
