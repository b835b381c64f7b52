package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

const reasoningSystemPrompt = `You are an expert personality psychologist. You build a structured personality profile from the evidence you are given: questionnaire answers and summaries of data from services the person connected.

Rules:
- Score each Big Five trait (openness, conscientiousness, extraversion, agreeableness, neuroticism) from 0 to 100.
- Every confidence is 0-100 and reflects how much evidence supports the value, not how extreme the value is. Use low confidence when evidence is thin.
- Interests use short lower-case tags grouped by a category.
- communicationStyle.primary and secondary are one of: analytical, expressive, amiable, driver.
- decisionMaking.style is one of: rational, intuitive, dependent, avoidant.
- socialPreferences.groupSize is one of: small, medium, large, mixed; interactionStyle is one of: introverted, ambiverted, extroverted; leadershipTendency is one of: follower, collaborator, leader.
- insights[].type is one of: strength, preference, tendency.
- Respond with a single JSON object that matches the schema. No prose, no markdown.`

// BuildReasoningPrompt renderiza la evidencia en un prompt determinista: mismo bundle, mismo texto.
// Conectores y secciones se recorren en orden alfabetico.
func BuildReasoningPrompt(b domain.EvidenceBundle) string {
	var sb strings.Builder

	sb.WriteString("## Demographics\n")
	wrote := false
	writeFact := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&sb, "- %s: %s\n", label, oneLine(value))
		wrote = true
	}
	writeFact("First name", b.Demographics.FirstName)
	if b.Demographics.Age != nil {
		writeFact("Age", fmt.Sprintf("%d", *b.Demographics.Age))
	}
	writeFact("Location", b.Demographics.Location)
	writeFact("Bio", b.Demographics.Bio)
	if !wrote {
		sb.WriteString("- not provided\n")
	}

	fmt.Fprintf(&sb, "\n## Questionnaire responses (%d)\n", len(b.Responses))
	if len(b.Responses) == 0 {
		sb.WriteString("No responses yet.\n")
	}
	for i, r := range b.Responses {
		question := r.QuestionText
		if question == "" {
			question = r.QuestionID
		}
		fmt.Fprintf(&sb, "%d. [%s] Q: %s\n   A: %s\n", i+1, r.Category, oneLine(question), oneLine(r.AnswerText))
		if r.Confidence > 0 && r.Confidence < 100 {
			fmt.Fprintf(&sb, "   (self-reported certainty: %d/100)\n", r.Confidence)
		}
	}

	sb.WriteString("\n## Connected data sources\n")
	if len(b.Signals) == 0 {
		sb.WriteString("No connected data sources.\n")
	}
	connectors := make([]string, 0, len(b.Signals))
	for name := range b.Signals {
		connectors = append(connectors, name)
	}
	sort.Strings(connectors)
	for _, name := range connectors {
		sig := b.Signals[name]
		fmt.Fprintf(&sb, "### %s\n", name)
		sections := make([]string, 0, len(sig.Sections))
		for section := range sig.Sections {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			items := sig.Sections[section]
			if len(items) == 0 {
				continue
			}
			parts := make([]string, 0, len(items))
			for _, it := range items {
				parts = append(parts, describeItem(it))
			}
			fmt.Fprintf(&sb, "- %s: %s\n", section, strings.Join(parts, "; "))
		}
		if len(sig.Tags) > 0 {
			fmt.Fprintf(&sb, "- tags: %s\n", strings.Join(sig.Tags, ", "))
		}
	}

	sb.WriteString("\n## Task\nAnalyze all of the evidence above and return the personality profile as a single JSON object.\n")
	return sb.String()
}

func describeItem(it domain.SignalItem) string {
	s := oneLine(it.Title)
	if d := oneLine(it.Detail); d != "" {
		s += " (" + d + ")"
	}
	if len(it.Tags) > 0 {
		s += " [" + strings.Join(it.Tags, ", ") + "]"
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func correctionPrompt(violations []string) string {
	var sb strings.Builder
	sb.WriteString("Your previous response did not match the required JSON schema. Problems found:\n")
	for _, v := range violations {
		sb.WriteString("- ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	sb.WriteString("Return only the corrected JSON object, with every required field present and every value inside its allowed range or set.")
	return sb.String()
}
