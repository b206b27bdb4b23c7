package farm

import (
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/agrorganica/internal/report"
	"github.com/mesh-intelligence/agrorganica/internal/sqlite"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// MarketFile is the spreadsheet written by the market export.
const MarketFile = "mercado_agrorganica.xlsx"

// LoadTrace gathers the traceability document of one planting: its
// producer, certification, plot and the latest input records applied to
// the plot on or before the reference date.
func LoadTrace(store *sqlite.Backend, plantingID string, today types.Date) (report.Trace, error) {
	p, err := store.Plantings().Get(plantingID)
	if err != nil {
		return report.Trace{}, fmt.Errorf("loading planting: %w", err)
	}
	producer, err := store.Producers().Get(p.ProducerID)
	if err != nil {
		return report.Trace{}, fmt.Errorf("loading producer: %w", err)
	}
	cert, err := store.Certifications().Get(p.ProducerID)
	if err != nil {
		return report.Trace{}, fmt.Errorf("loading certification: %w", err)
	}
	plot, err := store.Plots().Get(p.PlotID)
	if err != nil {
		return report.Trace{}, fmt.Errorf("loading plot: %w", err)
	}

	ref := p.ActualHarvestDate
	if ref.IsZero() {
		ref = today
	}
	inputs, err := store.InputRecords().ListByPlot(p.PlotID, ref, report.TraceInputLimit)
	if err != nil {
		return report.Trace{}, fmt.Errorf("loading input records: %w", err)
	}
	return report.BuildTrace(p, producer, cert, plot, inputs, today), nil
}

// Traceability writes the traceability document of a chosen planting to
// the report directory and shows it.
func (s *Session) Traceability() error {
	s.say("\n--- Gerar Relatório de Rastreabilidade ---")
	producer, ok, err := s.SelectProducer()
	if err != nil || !ok {
		return err
	}
	p, ok, err := s.SelectPlanting(producer, types.AllStatuses()...)
	if err != nil || !ok {
		return err
	}

	trace, err := LoadTrace(s.store, p.PlantingID, s.today())
	if err != nil {
		return s.fail("montar relatório de rastreabilidade", err)
	}
	generated := s.now()
	if err := report.WriteTrace(s.in.Out(), trace, generated); err != nil {
		return err
	}
	path, err := report.SaveTrace(s.reportDir, trace, generated)
	if err != nil {
		s.errs.Recordf("Erro ao salvar relatório de rastreabilidade: %v", err)
		return nil
	}
	s.say("\nRelatório salvo em '%s'.", path)
	return nil
}

// HarvestCalendar shows the expected harvests grouped by month.
func (s *Session) HarvestCalendar() error {
	s.say("\n--- Calendário de Colheitas Previstas ---")
	months := report.HarvestCalendar(s.plantings(), s.producerTrees())
	return report.WriteHarvestCalendar(s.in.Out(), months)
}

// Market shows the offer seen by buyers and optionally saves it as a
// spreadsheet.
func (s *Session) Market() error {
	s.say("\n--- Mercado Agrorgânica (Oferta Disponível/Prevista) ---")
	rows := report.MarketListing(s.plantings(), s.producerTrees(), s.certifications())
	if err := report.WriteMarketListing(s.in.Out(), rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	export, err := s.in.Confirm("\nExportar a listagem para planilha?")
	if err != nil || !export {
		return err
	}
	path := filepath.Join(s.reportDir, MarketFile)
	if err := report.WriteMarketXLSX(path, rows); err != nil {
		s.errs.Recordf("Erro ao exportar planilha do mercado: %v", err)
		return nil
	}
	s.say("Planilha salva em '%s'.", path)
	return nil
}
