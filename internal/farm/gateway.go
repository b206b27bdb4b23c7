package farm

import (
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// The loaders below never fail: a database error is recorded in the error
// log and an empty result is returned.

func (s *Session) producerTrees() []types.ProducerTree {
	trees, err := s.store.LoadProducerTrees()
	if err != nil {
		s.errs.Recordf("Erro ao carregar produtores e talhões: %v", err)
		return nil
	}
	return trees
}

func (s *Session) plantings() []types.Planting {
	plantings, err := s.store.LoadPlantings()
	if err != nil {
		s.errs.Recordf("Erro ao carregar plantios: %v", err)
		return nil
	}
	return plantings
}

func (s *Session) certifications() map[string]types.Certification {
	certs, err := s.store.LoadCertifications()
	if err != nil {
		s.errs.Recordf("Erro ao carregar status de certificação: %v", err)
		return map[string]types.Certification{}
	}
	return certs
}

func (s *Session) demands() []types.Demand {
	demands, err := s.store.LoadDemands()
	if err != nil {
		s.errs.Recordf("Erro ao carregar demandas: %v", err)
		return nil
	}
	return demands
}

// plotCodes maps plot ids to their producer-scoped codes.
func (s *Session) plotCodes(producerID string) map[string]string {
	codes := make(map[string]string)
	for _, tree := range s.producerTrees() {
		if producerID != "" && tree.ProducerID != producerID {
			continue
		}
		for _, p := range tree.Plots {
			codes[p.PlotID] = p.Code
		}
	}
	return codes
}
