package farm

import (
	"errors"

	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/internal/report"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// RegisterPlot asks for a plot code until one unused by the producer is
// given, then the area and soil type.
func (s *Session) RegisterPlot(producer types.Producer) error {
	s.say("\n--- Cadastro de Novo Talhão para Produtor ID: %s ---", producer.ProducerID)
	plot := types.Plot{ProducerID: producer.ProducerID}
	for {
		code, err := s.in.Text(prompt.Field{Label: "ID do talhão para o produtor (ex: T01, AreaNorte)"})
		if err != nil {
			return err
		}
		dup, err := s.store.Plots().CodeExists(producer.ProducerID, code, "")
		if err != nil {
			return s.fail("verificar talhão", err)
		}
		if !dup {
			plot.Code = code
			break
		}
		s.say("Erro: ID de talhão já existe para este produtor. Tente novamente.")
	}

	var err error
	if plot.AreaHa, _, err = s.in.Float(prompt.Field{Label: "Tamanho do talhão (hectares)"}, checkNonNegative); err != nil {
		return err
	}
	if plot.SoilType, err = s.in.Text(prompt.Field{Label: "Tipo de solo", Optional: true}); err != nil {
		return err
	}

	if err := s.store.Plots().Create(&plot); err != nil {
		return s.fail("cadastrar talhão", err)
	}
	s.say("Talhão '%s' cadastrado.", plot.Code)
	return nil
}

// producerPlots returns the producer's plots ordered by code.
func (s *Session) producerPlots(producerID string) ([]types.Plot, bool) {
	plots, err := s.store.Plots().ListByProducer(producerID)
	if err != nil {
		s.errs.Recordf("Erro ao listar talhões: %v", err)
		return nil, false
	}
	if len(plots) == 0 {
		s.say("Nenhum talhão cadastrado para este produtor.")
		return nil, false
	}
	return plots, true
}

func (s *Session) printPlots(producerID string, plots []types.Plot, numbered bool) {
	s.say("\n--- Talhões do Produtor ID: %s ---", producerID)
	for i, p := range plots {
		soil := p.SoilType
		if soil == "" {
			soil = "N/A"
		}
		if numbered {
			s.say("%d. ID: %s - Tamanho: %s ha - Solo: %s", i+1, p.Code, formatNumber(p.AreaHa), soil)
		} else {
			s.say("ID: %s - Tamanho: %s ha - Solo: %s", p.Code, formatNumber(p.AreaHa), soil)
		}
	}
}

// ListPlots prints the producer's plots.
func (s *Session) ListPlots(producer types.Producer) error {
	plots, ok := s.producerPlots(producer.ProducerID)
	if ok {
		s.printPlots(producer.ProducerID, plots, false)
	}
	return nil
}

// SelectPlot lists the producer's plots by code and returns the chosen one.
func (s *Session) SelectPlot(producer types.Producer) (types.Plot, bool, error) {
	plots, ok := s.producerPlots(producer.ProducerID)
	if !ok {
		return types.Plot{}, false, nil
	}
	s.printPlots(producer.ProducerID, plots, true)
	i, err := s.in.Choose(len(plots))
	if err != nil || i < 0 {
		return types.Plot{}, false, err
	}
	return plots[i], true, nil
}

// EditPlot re-asks code, area and soil type with the stored values as
// defaults.
func (s *Session) EditPlot(producer types.Producer) error {
	s.say("\n--- Editar Talhão ---")
	chosen, ok, err := s.SelectPlot(producer)
	if err != nil || !ok {
		return err
	}
	plot, err := s.store.Plots().Get(chosen.PlotID)
	if err != nil {
		return s.fail("carregar talhão", err)
	}

	s.say("Digite os novos dados (ou pressione Enter para manter o atual):")
	if plot.Code, err = s.in.Text(prompt.Field{Label: "ID do talhão", Default: plot.Code}); err != nil {
		return err
	}
	if plot.AreaHa, _, err = s.in.Float(prompt.Field{Label: "Tamanho (ha)", Default: formatNumber(plot.AreaHa)}, checkNonNegative); err != nil {
		return err
	}
	if plot.SoilType, err = s.in.Text(prompt.Field{Label: "Tipo de solo", Default: plot.SoilType, Optional: true}); err != nil {
		return err
	}

	if err := s.store.Plots().Update(plot); err != nil {
		if errors.Is(err, types.ErrDuplicateID) {
			s.say("Erro: ID de talhão já existe para este produtor.")
			return nil
		}
		return s.fail("editar talhão", err)
	}
	s.say("Dados do talhão '%s' atualizados.", plot.Code)
	return nil
}

// DeletePlot removes a plot with its plantings and input records after an
// explicit confirmation.
func (s *Session) DeletePlot(producer types.Producer) error {
	s.say("\n--- Excluir Talhão ---")
	plot, ok, err := s.SelectPlot(producer)
	if err != nil || !ok {
		return err
	}

	s.say("[AVISO] Excluir o talhão '%s' também excluirá seus plantios e insumos.", plot.Code)
	confirmed, err := s.in.Confirm("Excluir talhão '" + plot.Code + "' e dados associados?")
	if err != nil || !confirmed {
		return err
	}

	err = s.store.Plots().Delete(plot.PlotID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		s.say("Talhão não encontrado.")
	case err != nil:
		return s.fail("excluir talhão", err)
	default:
		s.say("Talhão '%s' excluído.", plot.Code)
	}
	return nil
}

// RotationHistory shows the crops planted on a chosen plot, most recent
// first.
func (s *Session) RotationHistory(producer types.Producer) error {
	s.say("\n--- Histórico de Rotação de Culturas ---")
	plot, ok, err := s.SelectPlot(producer)
	if err != nil || !ok {
		return err
	}
	plantings, err := s.store.Plantings().ListByPlot(plot.PlotID)
	if err != nil {
		return s.fail("carregar histórico do talhão", err)
	}
	return report.WriteRotationHistory(s.in.Out(), plot.Code, report.RotationHistory(plantings, plot.PlotID))
}
