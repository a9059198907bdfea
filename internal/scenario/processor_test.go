package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatif-server/internal/apperrors"
)

func TestProcess_EmptyInput(t *testing.T) {
	_, err := Process("   ")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInputValidation, apperrors.KindOf(err))
}

func TestProcess_TypePriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Type
	}{
		// Историческая специфика бьет местоимения первого лица
		{"historical beats first person", "What if I had fought at the Battle of Waterloo with Napoleon", TypeHistorical},
		{"first person is personal", "What if I quit tomorrow and moved abroad", TypePersonal},
		{"personal keyword", "What if every family adopted a dog", TypePersonal},
		{"professional keyword", "What if companies switched to a 4-day work week globally?", TypeProfessional},
		{"default hypothetical", "What if gravity reversed direction every night", TypeHypothetical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Process(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.ScenarioType)
		})
	}
}

func TestProcess_CanonicalProfessionalScenario(t *testing.T) {
	result, err := Process("What if companies switched to a 4-day work week globally?")
	require.NoError(t, err)

	assert.Equal(t, TypeProfessional, result.ScenarioType)
	// "globally" покрывает complex-маркер "global", поэтому сценарий
	// не может быть оценен как simple
	assert.NotEqual(t, ComplexitySimple, result.Complexity)
	assert.Contains(t, result.KeyElements.Actors, "companies")
	assert.NotEmpty(t, result.KeyElements.Actions)
}

func TestProcess_FirstPersonActorComesFirst(t *testing.T) {
	result, err := Process("What if I convinced the government to ban homework")
	require.NoError(t, err)

	require.NotEmpty(t, result.KeyElements.Actors)
	assert.Equal(t, "I", result.KeyElements.Actors[0])
	assert.Contains(t, result.KeyElements.Actors, "government")
}

func TestProcess_ActorsDefaultAndCap(t *testing.T) {
	// Ни одной категории актеров - подставляется "people"
	result, err := Process("What if gravity reversed direction every night")
	require.NoError(t, err)
	assert.Equal(t, []string{"people"}, result.KeyElements.Actors)

	// Много категорий - не больше пяти
	result, err = Process("What if people, the government, companies, families, nations, dogs, teachers and robots all met")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.KeyElements.Actors), 5)
}

func TestProcess_ActionsMayBeEmpty(t *testing.T) {
	result, err := Process("What if the sky were permanently green")
	require.NoError(t, err)
	assert.Empty(t, result.KeyElements.Actions)
	// Тип и сложность заполнены всегда, даже без действий
	assert.NotEmpty(t, result.ScenarioType)
	assert.NotEmpty(t, result.Complexity)
}

func TestProcess_ModalActionExtraction(t *testing.T) {
	result, err := Process("What if dolphins could talk to sailors")
	require.NoError(t, err)
	assert.Contains(t, result.KeyElements.Actions, "could talk")
}

func TestProcess_ContextNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"what if cats could fly", "Cats could fly?"},
		{"What if cats could fly?", "Cats could fly?"},
		{"Cats rule the world", "Cats rule the world?"},
		{"Cats rule the world.", "Cats rule the world."},
	}

	for _, tt := range tests {
		result, err := Process(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, result.KeyElements.Context)
	}
}

func TestProcess_ComplexityTiers(t *testing.T) {
	// Короткий бытовой сценарий без маркеров
	result, err := Process("What if my cat slept all day")
	require.NoError(t, err)
	assert.Equal(t, ComplexitySimple, result.Complexity)

	// Нагруженный сценарий: много слов, complex-маркеры, коннекторы
	long := "What if the global economy collapsed because international supply chain institutions failed, " +
		"and governments, companies and citizens had to restructure civilization while migration accelerated"
	result, err = Process(long)
	require.NoError(t, err)
	assert.Equal(t, ComplexityComplex, result.Complexity)
}

func TestProcess_Deterministic(t *testing.T) {
	text := "What if companies switched to a 4-day work week globally?"
	first, err := Process(text)
	require.NoError(t, err)
	second, err := Process(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
