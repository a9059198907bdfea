package apperrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFallbackContent_Serious(t *testing.T) {
	scenario := "What if everyone worked from home"
	content := CreateFallbackContent(FallbackSerious, scenario, "the AI provider timed out")

	assert.Contains(t, content, "Analysis Framework")
	assert.Contains(t, content, scenario)
	assert.Contains(t, content, "the AI provider timed out")
	assert.GreaterOrEqual(t, len(content), 100, "fallback content must be substantial")
}

func TestCreateFallbackContent_Fun(t *testing.T) {
	scenario := "What if cats ran the government"
	content := CreateFallbackContent(FallbackFun, scenario, "")

	assert.Contains(t, content, "Creative Prompt")
	assert.Contains(t, content, scenario)
	// Пустая причина заменяется на текст по умолчанию
	assert.Contains(t, content, "the AI service was unavailable")
	assert.GreaterOrEqual(t, len(content), 100)
}

func TestCreateFallbackContent_IsDeterministic(t *testing.T) {
	first := CreateFallbackContent(FallbackSerious, "scenario", "reason")
	second := CreateFallbackContent(FallbackSerious, "scenario", "reason")
	assert.Equal(t, first, second)
}

func TestValidateContent(t *testing.T) {
	longEnough := "This is a perfectly reasonable generated answer about the scenario in question."

	tests := []struct {
		name string
		text string
		min  int
		want bool
	}{
		{"valid content", longEnough, 50, true},
		{"too short", "short answer", 50, false},
		{"whitespace only", "    \n\t   ", 10, false},
		{"generic error prefix", "Error: the model could not produce a response for this request at all.", 50, false},
		{"generic refusal prefix", "Sorry, I am not able to help with that request under current settings.", 50, false},
		{"refusal case-insensitive", "I CANNOT assist with this particular scenario under the current rules here.", 50, false},
		{"error word mid-sentence is fine", "The plan had one error in it, but overall the outcome remains positive news.", 50, true},
		{"zero min falls back to default", "x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateContent(tt.text, tt.min))
		})
	}
}
