package farm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// RegisterPlanting records a new Planned crop cycle on a chosen plot. The
// previous crop is taken from the plot's latest planting; repeating it
// asks for confirmation.
func (s *Session) RegisterPlanting(producer types.Producer) error {
	plot, ok, err := s.SelectPlot(producer)
	if err != nil || !ok {
		return err
	}
	s.say("\n--- Registrar Novo Plantio (Produtor: %s, Talhão: %s) ---", producer.ProducerID, plot.Code)

	previous := types.NoPreviousCrop
	latest, found, err := s.store.Plantings().LatestOnPlot(plot.PlotID)
	if err != nil {
		s.errs.Recordf("Erro ao buscar cultura anterior: %v", err)
	} else if found {
		previous = latest.Crop
	}
	s.say("Última cultura registrada neste talhão: %s", previous)

	p := types.Planting{
		ProducerID:   producer.ProducerID,
		PlotID:       plot.PlotID,
		Status:       types.StatusPlanned,
		PreviousCrop: previous,
	}
	if p.Crop, err = s.in.Text(prompt.Field{Label: "Cultura a ser plantada"}); err != nil {
		return err
	}
	if found && strings.EqualFold(p.Crop, previous) {
		s.say("[AVISO] Plantando '%s' novamente em sequência.", p.Crop)
		proceed, err := s.in.Confirm("Continuar?")
		if err != nil || !proceed {
			return err
		}
	}

	if p.PlantingDate, err = s.in.Date(prompt.Field{Label: "Data do Plantio"}, checkPlantingWindow(s.today())); err != nil {
		return err
	}
	if p.ExpectedHarvestDate, err = s.in.Date(prompt.Field{Label: "Data PREVISTA da Colheita"}, checkAfter(p.PlantingDate)); err != nil {
		return err
	}
	if p.Notes, err = s.in.Text(prompt.Field{Label: "Observações", Optional: true}); err != nil {
		return err
	}

	if err := s.store.Plantings().Create(&p); err != nil {
		return s.fail("registrar plantio", err)
	}
	s.log.Debug("planting registered", zap.String("planting_id", p.PlantingID), zap.String("plot_id", p.PlotID))
	s.say("Plantio de '%s' registrado. Prev: %s", p.Crop, p.ExpectedHarvestDate.FormatBR())
	return nil
}

// SelectPlanting lists the producer's plantings in the given statuses,
// most recent reference date first, and returns the chosen one.
func (s *Session) SelectPlanting(producer types.Producer, statuses ...types.Status) (types.Planting, bool, error) {
	s.say("\n--- Selecionar Plantio/Produto (Produtor: %s) ---", producer.ProducerID)
	plantings, err := s.store.Plantings().ListByProducer(producer.ProducerID, statuses...)
	if err != nil {
		return types.Planting{}, false, s.fail("listar plantios", err)
	}
	if len(plantings) == 0 {
		names := make([]string, len(statuses))
		for i, st := range statuses {
			names[i] = string(st)
		}
		if len(names) == 0 {
			s.say("Nenhum plantio registrado.")
		} else {
			s.say("Nenhum registro encontrado com status: %s", strings.Join(names, ", "))
		}
		return types.Planting{}, false, nil
	}

	sortByReferenceDate(plantings)
	codes := s.plotCodes(producer.ProducerID)
	s.say("Registros encontrados:")
	for i, p := range plantings {
		s.say("%d. ID: %s - Cultura: %s (%s) - Talhão: %s - Data Ref: %s",
			i+1, p.PlantingID, p.Crop, p.Status, codes[p.PlotID], p.ReferenceDate().FormatBR())
	}
	i, err := s.in.Choose(len(plantings))
	if err != nil || i < 0 {
		return types.Planting{}, false, err
	}
	return plantings[i], true, nil
}

// sortByReferenceDate orders plantings by reference date descending with
// undated rows last.
func sortByReferenceDate(plantings []types.Planting) {
	sort.SliceStable(plantings, func(i, j int) bool {
		a, b := plantings[i].ReferenceDate(), plantings[j].ReferenceDate()
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

// ConfirmHarvest moves a Planned planting to Available with the actual
// date, quantity and unit.
func (s *Session) ConfirmHarvest(producer types.Producer) error {
	s.say("\n--- Confirmar Colheita ---")
	p, ok, err := s.SelectPlanting(producer, types.StatusPlanned)
	if err != nil {
		return err
	}
	if !ok {
		s.say("Nenhum plantio planejado selecionado.")
		return nil
	}

	on, err := s.in.Date(prompt.Field{Label: "Data REAL da Colheita"})
	if err != nil {
		return err
	}
	quantity, _, err := s.in.Float(prompt.Field{Label: "Quantidade Colhida (número)"}, checkNonNegative)
	if err != nil {
		return err
	}
	unit, err := s.in.Text(prompt.Field{Label: "Unidade de Medida (kg, ton, caixa, etc.)"})
	if err != nil {
		return err
	}

	if on.Before(p.PlantingDate) {
		s.say("Erro: Data da colheita (%s) não pode ser anterior à data de plantio (%s).", on.FormatBR(), p.PlantingDate.FormatBR())
		return nil
	}
	harvested, err := s.store.Plantings().ConfirmHarvest(p.PlantingID, on, quantity, unit)
	if err != nil {
		return s.fail("confirmar colheita", err)
	}
	s.say("\nColheita confirmada: %s %s de %s em %s.",
		formatNumber(*harvested.HarvestedQuantity), harvested.Unit, harvested.Crop, harvested.ActualHarvestDate.FormatBR())
	return nil
}

// EditPlanting re-asks the fields of a Planned or Available planting with
// the stored values as defaults. A changed planting date must fall in the
// planting window. The date rules are checked before anything is written
// and a violation cancels the whole edit.
func (s *Session) EditPlanting(producer types.Producer) error {
	s.say("\n--- Editar Plantio/Produto ---")
	chosen, ok, err := s.SelectPlanting(producer, types.StatusPlanned, types.StatusAvailable)
	if err != nil || !ok {
		return err
	}
	p, err := s.store.Plantings().Get(chosen.PlantingID)
	if err != nil {
		return s.fail("carregar plantio", err)
	}

	s.say("Digite os novos dados (ou pressione Enter para manter o atual):")
	if p.Crop, err = s.in.Text(prompt.Field{Label: "Cultura", Default: p.Crop}); err != nil {
		return err
	}
	stored := p.PlantingDate
	window := checkPlantingWindow(s.today())
	keepOrWindow := func(d types.Date) error {
		if d.Equal(stored) {
			return nil
		}
		return window(d)
	}
	if p.PlantingDate, err = s.in.Date(prompt.Field{Label: "Data Plantio", Default: dateDefault(stored)}, keepOrWindow); err != nil {
		return err
	}
	if p.ExpectedHarvestDate, err = s.in.Date(prompt.Field{Label: "Data Prev. Colheita", Default: dateDefault(p.ExpectedHarvestDate)}); err != nil {
		return err
	}
	if p.PreviousCrop, err = s.in.Text(prompt.Field{Label: "Cultura Anterior", Default: p.PreviousCrop, Optional: true}); err != nil {
		return err
	}
	if p.Notes, err = s.in.Text(prompt.Field{Label: "Observações", Default: p.Notes, Optional: true}); err != nil {
		return err
	}

	if p.Status == types.StatusAvailable {
		s.say("--- Editar Dados da Colheita ---")
		if p.ActualHarvestDate, err = s.in.Date(prompt.Field{Label: "Data Real Colheita", Default: dateDefault(p.ActualHarvestDate)}); err != nil {
			return err
		}
		var current string
		if p.HarvestedQuantity != nil {
			current = formatNumber(*p.HarvestedQuantity)
		}
		quantity, _, err := s.in.Float(prompt.Field{Label: "Quantidade Colhida", Default: current}, checkNonNegative)
		if err != nil {
			return err
		}
		p.HarvestedQuantity = &quantity
		if p.Unit, err = s.in.Text(prompt.Field{Label: "Unidade Medida", Default: p.Unit}); err != nil {
			return err
		}
	}

	if err := p.ValidateDates(); err != nil {
		s.say("Erro: %s Nenhuma alteração foi gravada.", ruleMessage(err))
		return nil
	}
	if err := s.store.Plantings().Update(p); err != nil {
		return s.fail("editar plantio", err)
	}
	s.say("Dados atualizados.")
	return nil
}

// DeletePlanting removes a Planned, Available or Cancelled planting after
// an explicit confirmation.
func (s *Session) DeletePlanting(producer types.Producer) error {
	s.say("\n--- Excluir Plantio/Produto ---")
	p, ok, err := s.SelectPlanting(producer, types.StatusPlanned, types.StatusAvailable, types.StatusCancelled)
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.in.Confirm("Excluir registro ID " + p.PlantingID + "?")
	if err != nil || !confirmed {
		return err
	}

	err = s.store.Plantings().Delete(p.PlantingID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		s.say("Registro não encontrado.")
	case err != nil:
		return s.fail("excluir plantio", err)
	default:
		s.say("Registro excluído.")
	}
	return nil
}

// MarkSold moves an Available planting to Sold.
func (s *Session) MarkSold(producer types.Producer) error {
	s.say("\n--- Marcar como Vendido ---")
	return s.transition(producer, types.StatusSold, "Marcar '%s' como vendido?", "Produto '%s' marcado como vendido.")
}

// CancelPlanting moves an Available planting to Cancelled.
func (s *Session) CancelPlanting(producer types.Producer) error {
	s.say("\n--- Cancelar Produto ---")
	return s.transition(producer, types.StatusCancelled, "Cancelar '%s'?", "Produto '%s' cancelado.")
}

func (s *Session) transition(producer types.Producer, next types.Status, question, done string) error {
	p, ok, err := s.SelectPlanting(producer, types.StatusAvailable)
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.in.Confirm(fmt.Sprintf(question, p.Crop))
	if err != nil || !confirmed {
		return err
	}
	if _, err := s.store.Plantings().SetStatus(p.PlantingID, next); err != nil {
		return s.fail("alterar status do plantio", err)
	}
	s.say(done, p.Crop)
	return nil
}
