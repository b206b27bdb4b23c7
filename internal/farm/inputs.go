package farm

import (
	"errors"

	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/internal/report"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// RegisterInput logs an organic input application on a chosen plot.
func (s *Session) RegisterInput(producer types.Producer) error {
	plot, ok, err := s.SelectPlot(producer)
	if err != nil || !ok {
		return err
	}
	s.say("\n--- Registrar Aplicação de Insumo (Produtor: %s, Talhão: %s) ---", producer.ProducerID, plot.Code)

	r := types.InputRecord{ProducerID: producer.ProducerID, PlotID: plot.PlotID}
	if r.AppliedOn, err = s.in.Date(prompt.Field{Label: "Data da Aplicação"}); err != nil {
		return err
	}
	if r.InputType, err = s.in.Text(prompt.Field{Label: "Tipo de Insumo (Composto, Adubo Verde, etc.)"}); err != nil {
		return err
	}
	if r.Quantity, err = s.in.Text(prompt.Field{Label: "Quantidade Aplicada (ex: kg, L, m³)", Optional: true}); err != nil {
		return err
	}
	if r.Notes, err = s.in.Text(prompt.Field{Label: "Observações", Optional: true}); err != nil {
		return err
	}

	if err := s.store.InputRecords().Create(&r); err != nil {
		return s.fail("registrar insumo", err)
	}
	s.say("Registro de '%s' salvo.", r.InputType)
	return nil
}

// producerInputs returns the producer's records, most recent first.
func (s *Session) producerInputs(producerID string) ([]types.InputRecord, bool) {
	records, err := s.store.InputRecords().ListByProducer(producerID)
	if err != nil {
		s.errs.Recordf("Erro ao listar insumos: %v", err)
		return nil, false
	}
	if len(records) == 0 {
		s.say("Nenhum registro de insumo encontrado.")
		return nil, false
	}
	return records, true
}

func (s *Session) printInputs(producerID string, records []types.InputRecord) {
	codes := s.plotCodes(producerID)
	for i, r := range records {
		s.say("%d. ID: %s - Data: %s - Tipo: %s - Talhão: %s", i+1, r.RecordID, r.AppliedOn.FormatBR(), r.InputType, codes[r.PlotID])
	}
}

// ListInputs prints the producer's input records.
func (s *Session) ListInputs(producer types.Producer) error {
	records, ok := s.producerInputs(producer.ProducerID)
	if ok {
		s.say("\n--- Registros de Insumo (Produtor: %s) ---", producer.ProducerID)
		s.printInputs(producer.ProducerID, records)
	}
	return nil
}

// SelectInput lists the producer's records and returns the chosen one.
func (s *Session) SelectInput(producer types.Producer) (types.InputRecord, bool, error) {
	s.say("\n--- Selecionar Registro de Insumo (Produtor: %s) ---", producer.ProducerID)
	records, ok := s.producerInputs(producer.ProducerID)
	if !ok {
		return types.InputRecord{}, false, nil
	}
	s.say("Registros encontrados:")
	s.printInputs(producer.ProducerID, records)
	i, err := s.in.Choose(len(records))
	if err != nil || i < 0 {
		return types.InputRecord{}, false, err
	}
	return records[i], true, nil
}

// DeleteInput removes an input record after an explicit confirmation.
func (s *Session) DeleteInput(producer types.Producer) error {
	s.say("\n--- Excluir Registro de Insumo ---")
	r, ok, err := s.SelectInput(producer)
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.in.Confirm("Excluir registro de insumo ID " + report.ShortID(r.RecordID) + "...?")
	if err != nil || !confirmed {
		return err
	}

	err = s.store.InputRecords().Delete(r.RecordID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		s.say("Registro não encontrado.")
	case err != nil:
		return s.fail("excluir insumo", err)
	default:
		s.say("Registro excluído.")
	}
	return nil
}
