package farm

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// RegisterProducer asks for a producer id until an unused one is given,
// then the remaining fields, and stores the producer with a cleared
// certification status.
func (s *Session) RegisterProducer() error {
	s.say("\n--- Cadastro de Novo Produtor ---")
	var id string
	for {
		var err error
		id, err = s.in.Text(prompt.Field{Label: "ID único para o produtor (ex: CPF/CNPJ ou código)"})
		if err != nil {
			return err
		}
		exists, err := s.store.Producers().Exists(id)
		if err != nil {
			return s.fail("verificar ID do produtor", err)
		}
		if !exists {
			break
		}
		s.say("Erro: ID de produtor já existe. Tente novamente.")
	}

	p := types.Producer{ProducerID: id}
	var err error
	if p.Name, err = s.in.Text(prompt.Field{Label: "Nome do Produtor/Propriedade"}); err != nil {
		return err
	}
	if p.Location, err = s.in.Text(prompt.Field{Label: "Localização (Município/Estado)"}); err != nil {
		return err
	}
	if p.Contact, err = s.in.Text(prompt.Field{Label: "Contato (Telefone/Email)", Optional: true}); err != nil {
		return err
	}
	if p.Association, err = s.in.Text(prompt.Field{Label: "Associação (se houver)", Optional: true}); err != nil {
		return err
	}

	if err := s.store.Producers().Create(p); err != nil {
		return s.fail("cadastrar produtor", err)
	}
	s.log.Debug("producer registered", zap.String("producer_id", p.ProducerID))
	s.say("Produtor '%s' cadastrado com sucesso com ID '%s'.", p.Name, p.ProducerID)
	return nil
}

// sortedProducers returns the producers ordered by name.
func (s *Session) sortedProducers() []types.ProducerTree {
	trees := s.producerTrees()
	sort.SliceStable(trees, func(i, j int) bool { return trees[i].Name < trees[j].Name })
	return trees
}

// ListProducers prints every producer with its plot count.
func (s *Session) ListProducers() error {
	trees := s.sortedProducers()
	if len(trees) == 0 {
		s.say("Nenhum produtor cadastrado.")
		return nil
	}
	s.say("\n--- Produtores Cadastrados ---")
	for _, t := range trees {
		s.say("ID: %s - Nome: %s - Localização: %s - Talhões: %d", t.ProducerID, t.Name, t.Location, len(t.Plots))
	}
	return nil
}

// SelectProducer lists the producers by name and returns the chosen one.
// The boolean is false when there are none or the user cancels.
func (s *Session) SelectProducer() (types.Producer, bool, error) {
	trees := s.sortedProducers()
	if len(trees) == 0 {
		s.say("Nenhum produtor cadastrado.")
		return types.Producer{}, false, nil
	}
	s.say("\n--- Produtores Cadastrados ---")
	for i, t := range trees {
		s.say("%d. ID: %s - Nome: %s", i+1, t.ProducerID, t.Name)
	}
	i, err := s.in.Choose(len(trees))
	if err != nil || i < 0 {
		return types.Producer{}, false, err
	}
	return trees[i].Producer, true, nil
}

// EditProducer re-asks every field with the stored value as default.
func (s *Session) EditProducer() error {
	s.say("\n--- Editar Produtor ---")
	chosen, ok, err := s.SelectProducer()
	if err != nil || !ok {
		return err
	}
	p, err := s.store.Producers().Get(chosen.ProducerID)
	if err != nil {
		return s.fail("carregar produtor", err)
	}

	s.say("Digite os novos dados (ou pressione Enter para manter o atual):")
	if p.Name, err = s.in.Text(prompt.Field{Label: "Nome", Default: p.Name}); err != nil {
		return err
	}
	if p.Location, err = s.in.Text(prompt.Field{Label: "Localização", Default: p.Location}); err != nil {
		return err
	}
	if p.Contact, err = s.in.Text(prompt.Field{Label: "Contato", Default: p.Contact, Optional: true}); err != nil {
		return err
	}
	if p.Association, err = s.in.Text(prompt.Field{Label: "Associação", Default: p.Association, Optional: true}); err != nil {
		return err
	}

	if err := s.store.Producers().Update(p); err != nil {
		return s.fail("editar produtor", err)
	}
	s.say("Dados do produtor atualizados.")
	return nil
}

// DeleteProducer removes a producer and everything it owns after an
// explicit confirmation.
func (s *Session) DeleteProducer() error {
	s.say("\n--- Excluir Produtor ---")
	p, ok, err := s.SelectProducer()
	if err != nil || !ok {
		return err
	}

	s.say("[AVISO] Excluir o produtor '%s' também excluirá seus talhões, plantios, insumos e certificação.", p.ProducerID)
	confirmed, err := s.in.Confirm("Excluir produtor '" + p.ProducerID + "' e TODOS os seus dados? (Irreversível)")
	if err != nil || !confirmed {
		return err
	}

	err = s.store.Producers().Delete(p.ProducerID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		s.say("Produtor não encontrado.")
	case err != nil:
		return s.fail("excluir produtor", err)
	default:
		s.say("Produtor '%s' e dados associados excluídos.", p.ProducerID)
	}
	return nil
}
