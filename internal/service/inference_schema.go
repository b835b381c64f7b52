package service

import (
	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/llm"
)

const inferenceSchemaName = "trait_profile_inference"

func percentSchema(desc string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeNumber, Description: desc, Minimum: llm.Float(0), Maximum: llm.Float(100)}
}

func enumSchema[T ~string](values []T) *llm.Schema {
	enum := make([]string, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return &llm.Schema{Type: llm.TypeString, Enum: enum}
}

// objectSchema marca como requeridas todas las propiedades salvo las de optional.
func objectSchema(order []string, props map[string]*llm.Schema, optional ...string) *llm.Schema {
	required := make([]string, 0, len(order))
	for _, key := range order {
		if !domain.Contains(optional, key) {
			required = append(required, key)
		}
	}
	return &llm.Schema{Type: llm.TypeObject, Properties: props, Order: order, Required: required}
}

// InferenceSchema es el contrato de salida que se le pide al motor de razonamiento.
func InferenceSchema() *llm.Schema {
	traitProps := make(map[string]*llm.Schema, len(domain.BigFive))
	traitOrder := make([]string, 0, len(domain.BigFive))
	for _, d := range domain.BigFive {
		traitOrder = append(traitOrder, string(d))
		traitProps[string(d)] = objectSchema(
			[]string{"score", "confidence", "reasoning"},
			map[string]*llm.Schema{
				"score":      percentSchema("Trait score"),
				"confidence": percentSchema("Evidence strength"),
				"reasoning":  {Type: llm.TypeString, Description: "Short justification"},
			},
			"reasoning",
		)
	}

	interest := objectSchema(
		[]string{"category", "tags", "confidence"},
		map[string]*llm.Schema{
			"category":   {Type: llm.TypeString},
			"tags":       {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
			"confidence": percentSchema(""),
		},
	)

	insight := objectSchema(
		[]string{"type", "title", "description", "confidence"},
		map[string]*llm.Schema{
			"type":        enumSchema(domain.InsightKinds),
			"title":       {Type: llm.TypeString},
			"description": {Type: llm.TypeString},
			"confidence":  percentSchema(""),
		},
		"description",
	)

	return objectSchema(
		[]string{"bigFiveTraits", "interests", "communicationStyle", "decisionMaking", "workStyle", "socialPreferences", "insights"},
		map[string]*llm.Schema{
			"bigFiveTraits": objectSchema(traitOrder, traitProps),
			"interests":     {Type: llm.TypeArray, Items: interest},
			"communicationStyle": objectSchema(
				[]string{"primary", "secondary", "confidence"},
				map[string]*llm.Schema{
					"primary":    enumSchema(domain.CommunicationModes),
					"secondary":  enumSchema(domain.CommunicationModes),
					"confidence": percentSchema(""),
				},
				"secondary",
			),
			"decisionMaking": objectSchema(
				[]string{"style", "confidence"},
				map[string]*llm.Schema{
					"style":      enumSchema(domain.DecisionModes),
					"confidence": percentSchema(""),
				},
			),
			"workStyle": objectSchema(
				[]string{"collaboration", "autonomy", "structure", "innovation"},
				map[string]*llm.Schema{
					"collaboration": percentSchema(""),
					"autonomy":      percentSchema(""),
					"structure":     percentSchema(""),
					"innovation":    percentSchema(""),
				},
			),
			"socialPreferences": objectSchema(
				[]string{"groupSize", "interactionStyle", "leadershipTendency"},
				map[string]*llm.Schema{
					"groupSize":          enumSchema(domain.GroupSizes),
					"interactionStyle":   enumSchema(domain.InteractionStyles),
					"leadershipTendency": enumSchema(domain.LeadershipTendencies),
				},
			),
			"insights": {Type: llm.TypeArray, Items: insight},
		},
	)
}
