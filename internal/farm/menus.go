package farm

import (
	"github.com/mesh-intelligence/agrorganica/internal/menu"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// Run shows the main menu until the user leaves or the input ends.
func (s *Session) Run() error {
	return s.run(s.MainMenu())
}

func (s *Session) run(m menu.Menu) error {
	return menu.Run(s.in, s.errs, m)
}

// MainMenu is the root of the interactive program.
func (s *Session) MainMenu() menu.Menu {
	return menu.Menu{
		Title: "Agrorgânica Soluções Sustentáveis",
		Name:  "principal",
		Back:  "Sair",
		Items: []menu.Item{
			{Label: "Gestão de Produtores", Action: func() error { return s.run(s.producersMenu()) }},
			{Label: "Gestão de Talhões", Action: s.forProducer(s.plotsMenu)},
			{Label: "Gestão de Plantios e Colheitas", Action: s.forProducer(s.plantingsMenu)},
			{Label: "Gestão de Práticas Sustentáveis", Action: s.forProducer(s.sustainabilityMenu)},
			{Label: "Gestão de Demandas", Action: func() error { return s.run(s.demandsMenu()) }},
			{Label: "Mercado", Action: s.Market},
			{Label: "Outras Consultas e Relatórios", Action: func() error { return s.run(s.reportsMenu()) }},
		},
	}
}

// forProducer selects a producer, then runs the menu built for it.
func (s *Session) forProducer(build func(types.Producer) menu.Menu) func() error {
	return func() error {
		producer, ok, err := s.SelectProducer()
		if err != nil {
			return err
		}
		if !ok {
			s.say("Nenhum produtor selecionado.")
			return nil
		}
		return s.run(build(producer))
	}
}

// bind adapts a producer-scoped flow to a menu action.
func bind(producer types.Producer, flow func(types.Producer) error) func() error {
	return func() error { return flow(producer) }
}

func (s *Session) producersMenu() menu.Menu {
	return menu.Menu{
		Title: "Gestão de Produtores",
		Name:  "produtores",
		Pause: true,
		Items: []menu.Item{
			{Label: "Cadastrar Novo Produtor", Action: s.RegisterProducer},
			{Label: "Listar Produtores", Action: s.ListProducers},
			{Label: "Editar Produtor", Action: s.EditProducer},
			{Label: "Excluir Produtor", Action: s.DeleteProducer},
		},
	}
}

func (s *Session) plotsMenu(producer types.Producer) menu.Menu {
	return menu.Menu{
		Title: "Gestão de Talhões (Produtor: " + producer.ProducerID + ")",
		Name:  "talhões",
		Pause: true,
		Items: []menu.Item{
			{Label: "Cadastrar Novo Talhão", Action: bind(producer, s.RegisterPlot)},
			{Label: "Listar Talhões", Action: bind(producer, s.ListPlots)},
			{Label: "Editar Talhão", Action: bind(producer, s.EditPlot)},
			{Label: "Excluir Talhão", Action: bind(producer, s.DeletePlot)},
			{Label: "Histórico de Rotação", Action: bind(producer, s.RotationHistory)},
		},
	}
}

func (s *Session) plantingsMenu(producer types.Producer) menu.Menu {
	return menu.Menu{
		Title: "Gestão de Plantios/Colheitas (Produtor: " + producer.ProducerID + ")",
		Name:  "plantios",
		Pause: true,
		Items: []menu.Item{
			{Label: "Registrar Novo Plantio", Action: bind(producer, s.RegisterPlanting)},
			{Label: "Confirmar Colheita", Action: bind(producer, s.ConfirmHarvest)},
			{Label: "Editar Plantio/Produto", Action: bind(producer, s.EditPlanting)},
			{Label: "Excluir Plantio/Produto", Action: bind(producer, s.DeletePlanting)},
			{Label: "Marcar Produto como Vendido", Action: bind(producer, s.MarkSold)},
			{Label: "Cancelar Produto", Action: bind(producer, s.CancelPlanting)},
		},
	}
}

func (s *Session) sustainabilityMenu(producer types.Producer) menu.Menu {
	return menu.Menu{
		Title: "Gestão de Práticas Sustentáveis (Produtor: " + producer.ProducerID + ")",
		Name:  "sustentabilidade",
		Pause: true,
		Items: []menu.Item{
			{Label: "Registrar Aplicação de Insumo", Action: bind(producer, s.RegisterInput)},
			{Label: "Listar Registros de Insumo", Action: bind(producer, s.ListInputs)},
			{Label: "Excluir Registro de Insumo", Action: bind(producer, s.DeleteInput)},
			{Label: "Gerenciar Certificação", Action: bind(producer, s.ManageCertification)},
		},
	}
}

func (s *Session) demandsMenu() menu.Menu {
	return menu.Menu{
		Title: "Gestão de Demandas",
		Name:  "demandas",
		Pause: true,
		Items: []menu.Item{
			{Label: "Registrar Nova Demanda", Action: s.RegisterDemand},
			{Label: "Listar Demandas", Action: s.ListDemands},
			{Label: "Excluir Demanda", Action: s.DeleteDemand},
		},
	}
}

func (s *Session) reportsMenu() menu.Menu {
	return menu.Menu{
		Title: "Outras Consultas e Relatórios",
		Name:  "consultas",
		Pause: true,
		Items: []menu.Item{
			{Label: "Gerar Relatório de Rastreabilidade", Action: s.Traceability},
			{Label: "Calendário de Colheitas Previstas", Action: s.HarvestCalendar},
		},
	}
}
