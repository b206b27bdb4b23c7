package farm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

func (s *Session) showCertification(c types.Certification) {
	status := "NÃO CERTIFICADO"
	if c.Certified {
		status = "CERTIFICADO"
	}
	s.say("Status Geral: %s", status)
	s.say("Etapas:")
	for _, st := range types.Stages() {
		mark := "[ ]"
		if c.StageDone(st) {
			mark = "[X]"
		}
		s.say("%d. %s: %s", int(st), st.Label(), mark)
	}
}

// ManageCertification shows the producer's certification and applies one
// change: the overall flag or a single stage. The state shown afterwards
// is read back from the database.
func (s *Session) ManageCertification(producer types.Producer) error {
	s.say("\n--- Status da Certificação Orgânica (Produtor: %s) ---", producer.ProducerID)
	cert, err := s.store.Certifications().Get(producer.ProducerID)
	if errors.Is(err, types.ErrNotFound) {
		s.say("Status não encontrado para produtor %s. Verifique cadastro.", producer.ProducerID)
		return nil
	}
	if err != nil {
		return s.fail("carregar certificação", err)
	}
	s.showCertification(cert)

	s.say("\nOpções: M - Marcar/Desmarcar etapa | C - Alterar status geral | V - Voltar")
	for {
		choice, err := s.in.Line("Escolha: ")
		if err != nil {
			return err
		}
		switch strings.ToUpper(choice) {
		case "V":
			return nil
		case "C":
			certified, err := s.in.Confirm("Marcar como CERTIFICADO?")
			if err != nil {
				return err
			}
			updated, err := s.store.Certifications().SetCertified(producer.ProducerID, certified)
			if err != nil {
				return s.fail("alterar status geral da certificação", err)
			}
			s.say("Status geral alterado.")
			s.showCertification(updated)
			return nil
		case "M":
			n := len(types.Stages())
			num, _, err := s.in.Int(prompt.Field{Label: fmt.Sprintf("Número da etapa (1-%d)", n)}, checkStage)
			if err != nil {
				return err
			}
			stage := types.Stage(num)
			updated, err := s.store.Certifications().ToggleStage(producer.ProducerID, stage)
			if err != nil {
				return s.fail("alterar etapa da certificação", err)
			}
			s.say("Status '%s' alterado.", stage.Label())
			s.showCertification(updated)
			return nil
		default:
			s.say("Opção inválida.")
		}
	}
}

func checkStage(n int) error {
	if !types.Stage(n).Valid() {
		return violate(types.ErrInvalidData, "Número inválido.")
	}
	return nil
}
