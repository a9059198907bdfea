package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\n\nb", NormalizeNewlines("a\n\n\n\nb"))
	// Два перевода строки не трогаются
	assert.Equal(t, "a\n\nb", NormalizeNewlines("a\n\nb"))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "one two three", CollapseSpaces("one  two     three"))
}

func TestCanonicalBullets(t *testing.T) {
	in := "- first\n* second\nplain line"
	want := "• first\n• second\nplain line"
	assert.Equal(t, want, CanonicalBullets(in))
}

func TestBoldTransitions(t *testing.T) {
	in := "However, things changed. Therefore we adapt. In conclusion it worked."
	out := BoldTransitions(in)
	assert.Contains(t, out, "**However**")
	assert.Contains(t, out, "**Therefore**")
	assert.Contains(t, out, "**In conclusion**")
}

func TestSparkle(t *testing.T) {
	assert.Equal(t, "Wow! ✨ That happened!!! ✨", Sparkle("Wow! That happened!!!"))
}

func TestFunBullets(t *testing.T) {
	in := "1. first thing\n2. second thing\n- dash item\n• dot item"
	out := FunBullets(in)
	assert.Contains(t, out, "🎯 first thing")
	assert.Contains(t, out, "🎯 second thing")
	assert.Contains(t, out, "🌟 dash item")
	assert.Contains(t, out, "🌟 dot item")
}

func TestBoldExciting(t *testing.T) {
	out := BoldExciting("An amazing day with an ABSURD twist")
	assert.Contains(t, out, "**amazing**")
	assert.Contains(t, out, "**ABSURD**")
}

// Все правила оформления идемпотентны: повторное применение не меняет
// уже оформленный текст. На этом держится форматтер, который гоняет
// правила поверх вывода генераторов.
func TestRules_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
	}{
		{"NormalizeNewlines", NormalizeNewlines, "a\n\n\n\nb\n\n\nc"},
		{"CollapseSpaces", CollapseSpaces, "one    two  three"},
		{"CanonicalBullets", CanonicalBullets, "- one\n* two"},
		{"BoldTransitions", BoldTransitions, "However, it works. Therefore done."},
		{"Sparkle", Sparkle, "Great! Wonderful!!!"},
		{"FunBullets", FunBullets, "1. one\n- two"},
		{"BoldExciting", BoldExciting, "an amazing and epic run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := tt.fn(tt.in)
			assert.Equal(t, once, tt.fn(once), "second application must be a no-op")
		})
	}
}
