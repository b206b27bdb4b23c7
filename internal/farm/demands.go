package farm

import (
	"errors"

	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/internal/report"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// RegisterDemand records a buyer demand. The date needed cannot be in the
// past.
func (s *Session) RegisterDemand() error {
	s.say("\n--- Registrar Nova Demanda ---")
	var d types.Demand
	var err error
	if d.Crop, err = s.in.Text(prompt.Field{Label: "Cultura desejada"}); err != nil {
		return err
	}
	if d.Quantity, _, err = s.in.Float(prompt.Field{Label: "Quantidade necessária"}, checkPositive); err != nil {
		return err
	}
	if d.Unit, err = s.in.Text(prompt.Field{Label: "Unidade de Medida (kg, ton, caixa, etc.)"}); err != nil {
		return err
	}
	if d.NeededBy, err = s.in.Date(prompt.Field{Label: "Data para quando precisa do produto"}, checkNotPast(s.today())); err != nil {
		return err
	}
	if d.Notes, err = s.in.Text(prompt.Field{Label: "Observações", Optional: true}); err != nil {
		return err
	}

	d.RegisteredAt = s.now()
	if err := s.store.Demands().Create(&d); err != nil {
		return s.fail("registrar demanda", err)
	}
	s.say("Demanda por '%s' registrada com sucesso (ID: %s...).", d.Crop, report.ShortID(d.DemandID))
	return nil
}

// ListDemands prints every demand ordered by the date needed.
func (s *Session) ListDemands() error {
	s.say("\n--- Demandas Registradas ---")
	return report.WriteDemands(s.in.Out(), s.demands())
}

// SelectDemand lists the demands and returns the chosen one.
func (s *Session) SelectDemand() (types.Demand, bool, error) {
	s.say("\n--- Selecionar Demanda Registrada ---")
	demands := s.demands()
	if len(demands) == 0 {
		s.say("Nenhuma demanda registrada.")
		return types.Demand{}, false, nil
	}
	for i, d := range demands {
		s.say("%d. ID: %s... - Cultura: %s - Qtd: %s %s - Precisa em: %s",
			i+1, report.ShortID(d.DemandID), d.Crop, formatNumber(d.Quantity), d.Unit, d.NeededBy.FormatBR())
	}
	i, err := s.in.Choose(len(demands))
	if err != nil || i < 0 {
		return types.Demand{}, false, err
	}
	return demands[i], true, nil
}

// DeleteDemand removes a demand after an explicit confirmation.
func (s *Session) DeleteDemand() error {
	s.say("\n--- Excluir Demanda ---")
	d, ok, err := s.SelectDemand()
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.in.Confirm("Excluir registro de demanda ID " + report.ShortID(d.DemandID) + "...?")
	if err != nil || !confirmed {
		return err
	}

	err = s.store.Demands().Delete(d.DemandID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		s.say("Registro de demanda não encontrado.")
	case err != nil:
		return s.fail("excluir demanda", err)
	default:
		s.say("Registro de demanda excluído.")
	}
	return nil
}
