package generator

import (
	"fmt"
	"strings"

	"whatif-server/internal/scenario"
)

// Конструкторы промптов. Текст промпта детерминированно собирается из
// персоны, рамки по типу сценария, рамки по сложности, самого сценария,
// извлеченных элементов и фиксированного списка инструкций.

var seriousTypeFraming = map[scenario.Type]string{
	scenario.TypePersonal:     "This is a personal life scenario. Ground your analysis in everyday practicalities: time, money, relationships and habits.",
	scenario.TypeProfessional: "This is a workplace or business scenario. Ground your analysis in organizational dynamics, incentives, markets and regulation.",
	scenario.TypeHistorical:   "This is a counterfactual historical scenario. Ground your analysis in the actual historical context and plausible chains of causation.",
	scenario.TypeHypothetical: "This is an open hypothetical scenario. Ground your analysis in known physical, social and economic constraints.",
}

var seriousComplexityFraming = map[scenario.Complexity]string{
	scenario.ComplexitySimple:   "Keep it to a direct analysis of the immediate consequences.",
	scenario.ComplexityModerate: "Cover both the immediate effects and the most important secondary effects.",
	scenario.ComplexityComplex:  "Provide a comprehensive analysis of interconnected, long-term effects across multiple domains.",
}

var funTypeFraming = map[scenario.Type]string{
	scenario.TypePersonal:     "Turn this slice of personal life into a small domestic comedy where ordinary objects develop opinions.",
	scenario.TypeProfessional: "Turn this workplace scenario into office satire where the org chart takes on a life of its own.",
	scenario.TypeHistorical:   "Rewrite this moment of history as a gloriously anachronistic costume drama.",
	scenario.TypeHypothetical: "Treat this hypothetical as the premise of a cheerfully absurd alternate universe.",
}

var funComplexityFraming = map[scenario.Complexity]string{
	scenario.ComplexitySimple:   "One good comedic twist is enough.",
	scenario.ComplexityModerate: "Weave in multiple interconnected gags that build on each other.",
	scenario.ComplexityComplex:  "Construct an elaborate narrative with escalating absurdity from start to finish.",
}

// buildSeriousPrompt собирает аналитический промпт.
func buildSeriousPrompt(s scenario.ProcessedScenario) string {
	var b strings.Builder

	b.WriteString("You are a realistic analyst who evaluates hypothetical scenarios with rigor and objectivity.\n\n")
	b.WriteString(seriousTypeFraming[s.ScenarioType])
	b.WriteString("\n")
	b.WriteString(seriousComplexityFraming[s.Complexity])
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n", s.OriginalText)

	if len(s.KeyElements.Actors) > 0 {
		fmt.Fprintf(&b, "Key actors involved: %s\n", strings.Join(s.KeyElements.Actors, ", "))
	}
	if len(s.KeyElements.Actions) > 0 {
		fmt.Fprintf(&b, "Key actions involved: %s\n", strings.Join(s.KeyElements.Actions, ", "))
	}

	b.WriteString(`
In your analysis:
1. Respect practical constraints (physics, law, economics, human behavior).
2. Follow clear cause-and-effect logic from the scenario to each outcome.
3. Name the main obstacles that would complicate or prevent the outcome.
4. Indicate how probable each major consequence is.
5. Keep an objective, measured tone throughout.`)

	return b.String()
}

// buildFunPrompt собирает творческий промпт.
func buildFunPrompt(s scenario.ProcessedScenario) string {
	var b strings.Builder

	b.WriteString("You are a creative storyteller with a gift for finding the delightful absurdity in any premise.\n\n")
	b.WriteString(funTypeFraming[s.ScenarioType])
	b.WriteString("\n")
	b.WriteString(funComplexityFraming[s.Complexity])
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n", s.OriginalText)

	if len(s.KeyElements.Actors) > 0 {
		fmt.Fprintf(&b, "Transform these characters into comedic gold: %s\n", strings.Join(s.KeyElements.Actors, ", "))
	}
	if len(s.KeyElements.Actions) > 0 {
		fmt.Fprintf(&b, "Make these actions hilariously unexpected: %s\n", strings.Join(s.KeyElements.Actions, ", "))
	}

	b.WriteString(`
In your story:
1. Lean into humor, exaggeration and gentle surrealism.
2. Let small details snowball into wonderfully silly consequences.
3. Keep everything playful and light - absolutely no offensive content.
4. End on a note that makes the reader grin.`)

	return b.String()
}
