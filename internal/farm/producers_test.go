package farm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

func TestRegisterProducer(t *testing.T) {
	t.Run("stores the producer with a cleared certification", func(t *testing.T) {
		store := setupStore(t)
		h := session(t, store, "P1", "Farm A", "Registro/SP", "", "")

		require.NoError(t, h.s.RegisterProducer())
		assert.Contains(t, h.out.String(), "Produtor 'Farm A' cadastrado com sucesso com ID 'P1'.")

		got, err := store.Producers().Get("P1")
		require.NoError(t, err)
		assert.Equal(t, "Farm A", got.Name)
		assert.Empty(t, got.Contact)

		cert, err := store.Certifications().Get("P1")
		require.NoError(t, err)
		assert.Equal(t, types.Certification{ProducerID: "P1"}, cert)
	})

	t.Run("asks again for a taken id", func(t *testing.T) {
		store := setupStore(t)
		seedFarm(t, store)
		h := session(t, store, "P1", "p1", "Sítio B", "Iguape", "11 9999", "")

		require.NoError(t, h.s.RegisterProducer())
		assert.Contains(t, h.out.String(), "Erro: ID de produtor já existe.")

		got, err := store.Producers().Get("p1")
		require.NoError(t, err)
		assert.Equal(t, "11 9999", got.Contact)
	})

	t.Run("required fields are asked again when empty", func(t *testing.T) {
		store := setupStore(t)
		h := session(t, store, "P9", "", "Nome", "Local", "", "")

		require.NoError(t, h.s.RegisterProducer())
		assert.Contains(t, h.out.String(), "Erro: Este campo é obrigatório.")
	})
}

func TestSelectProducer(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.Producers().Create(types.Producer{ProducerID: "Z", Name: "Zeca", Location: "x"}))
	require.NoError(t, store.Producers().Create(types.Producer{ProducerID: "A", Name: "Ana", Location: "y"}))

	h := session(t, store, "3", "1")
	p, ok, err := h.s.SelectProducer()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", p.ProducerID, "listed by name")
	assert.Contains(t, h.out.String(), "Opção inválida.")

	h = session(t, store, "0")
	_, ok, err = h.s.SelectProducer()
	require.NoError(t, err)
	assert.False(t, ok)

	h = session(t, setupStore(t))
	_, ok, err = h.s.SelectProducer()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, h.out.String(), "Nenhum produtor cadastrado.")
}

func TestEditProducerKeepsDefaults(t *testing.T) {
	store := setupStore(t)
	seedFarm(t, store)
	h := session(t, store, "1", "", "Eldorado/SP", "", "APAVR")

	require.NoError(t, h.s.EditProducer())
	assert.Contains(t, h.out.String(), "Nome [Farm A]: ")

	got, err := store.Producers().Get("P1")
	require.NoError(t, err)
	assert.Equal(t, types.Producer{ProducerID: "P1", Name: "Farm A", Location: "Eldorado/SP", Association: "APAVR"}, got)
}

func TestDeleteProducer(t *testing.T) {
	t.Run("confirmed delete cascades", func(t *testing.T) {
		store := setupStore(t)
		plot := seedFarm(t, store)
		seedCorn(t, store, plot)
		require.NoError(t, store.InputRecords().Create(&types.InputRecord{
			ProducerID: "P1", PlotID: plot.PlotID, AppliedOn: types.NewDate(2024, 4, 1), InputType: "Composto",
		}))

		h := session(t, store, "1", "S")
		require.NoError(t, h.s.DeleteProducer())
		assert.Contains(t, h.out.String(), "[AVISO]")
		assert.Contains(t, h.out.String(), "Produtor 'P1' e dados associados excluídos.")

		exists, err := store.Producers().Exists("P1")
		require.NoError(t, err)
		assert.False(t, exists)
		plantings, err := store.LoadPlantings()
		require.NoError(t, err)
		assert.Empty(t, plantings)
		inputs, err := store.LoadInputRecords()
		require.NoError(t, err)
		assert.Empty(t, inputs)
		plots, err := store.LoadPlots()
		require.NoError(t, err)
		assert.Empty(t, plots)
	})

	t.Run("declined delete keeps everything", func(t *testing.T) {
		store := setupStore(t)
		seedFarm(t, store)

		h := session(t, store, "1", "x", "N")
		require.NoError(t, h.s.DeleteProducer())
		assert.Contains(t, h.out.String(), "Resposta inválida. Digite S ou N.")

		exists, err := store.Producers().Exists("P1")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
