package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// ParseInference decodifica y valida la salida cruda del motor. Acepta fences y texto
// alrededor del objeto JSON. Si hay violaciones devuelve *domain.InferenceSchemaError con
// todas ellas, no solo la primera.
func ParseInference(raw string) (domain.InferenceResult, error) {
	body := extractFirstJSONObject(cleanLLMJSONResponse(raw))
	if body == "" {
		return domain.InferenceResult{}, &domain.InferenceSchemaError{Violations: []string{"response does not contain a JSON object"}}
	}

	d := &inferenceDecoder{}
	root := d.object(json.RawMessage(body), "$")
	if root == nil {
		return domain.InferenceResult{}, d.err()
	}

	result := domain.InferenceResult{Traits: make(map[domain.Dimension]domain.InferredTrait, len(domain.BigFive))}

	if traits := d.childObject(root, "bigFiveTraits", "$"); traits != nil {
		for _, dim := range domain.BigFive {
			path := "bigFiveTraits"
			block := d.childObject(traits, string(dim), path)
			if block == nil {
				continue
			}
			path += "." + string(dim)
			result.Traits[dim] = domain.InferredTrait{
				Score:      d.percent(block, "score", path),
				Confidence: d.percent(block, "confidence", path),
				Reasoning:  d.text(block, "reasoning", path, false),
			}
		}
	}

	for i, item := range d.childArray(root, "interests", "$") {
		path := fmt.Sprintf("interests[%d]", i)
		obj := d.object(item, path)
		if obj == nil {
			continue
		}
		result.Interests = append(result.Interests, domain.InferredInterest{
			Category:   d.text(obj, "category", path, true),
			Tags:       d.stringList(obj, "tags", path),
			Confidence: d.percent(obj, "confidence", path),
		})
	}

	if cs := d.childObject(root, "communicationStyle", "$"); cs != nil {
		result.CommunicationStyle = domain.CommunicationStyle{
			Primary:    enumField(d, cs, "primary", "communicationStyle", domain.CommunicationModes, true),
			Secondary:  enumField(d, cs, "secondary", "communicationStyle", domain.CommunicationModes, false),
			Confidence: d.percent(cs, "confidence", "communicationStyle"),
		}
	}

	if dm := d.childObject(root, "decisionMaking", "$"); dm != nil {
		result.DecisionStyle = domain.DecisionStyle{
			Style:      enumField(d, dm, "style", "decisionMaking", domain.DecisionModes, true),
			Confidence: d.percent(dm, "confidence", "decisionMaking"),
		}
	}

	if ws := d.childObject(root, "workStyle", "$"); ws != nil {
		result.WorkStyle = domain.WorkStyle{
			Collaboration: d.percent(ws, "collaboration", "workStyle"),
			Autonomy:      d.percent(ws, "autonomy", "workStyle"),
			Structure:     d.percent(ws, "structure", "workStyle"),
			Innovation:    d.percent(ws, "innovation", "workStyle"),
		}
	}

	if sp := d.childObject(root, "socialPreferences", "$"); sp != nil {
		result.SocialPreferences = domain.SocialPreferences{
			GroupSize:          enumField(d, sp, "groupSize", "socialPreferences", domain.GroupSizes, true),
			InteractionStyle:   enumField(d, sp, "interactionStyle", "socialPreferences", domain.InteractionStyles, true),
			LeadershipTendency: enumField(d, sp, "leadershipTendency", "socialPreferences", domain.LeadershipTendencies, true),
		}
	}

	for i, item := range d.childArray(root, "insights", "$") {
		path := fmt.Sprintf("insights[%d]", i)
		obj := d.object(item, path)
		if obj == nil {
			continue
		}
		result.Insights = append(result.Insights, domain.InferredInsight{
			Kind:        enumField(d, obj, "type", path, domain.InsightKinds, true),
			Title:       d.text(obj, "title", path, true),
			Description: d.text(obj, "description", path, false),
			Confidence:  d.percent(obj, "confidence", path),
		})
	}

	if err := d.err(); err != nil {
		return domain.InferenceResult{}, err
	}
	return result, nil
}

// inferenceDecoder acumula violaciones mientras recorre el JSON.
type inferenceDecoder struct {
	violations []string
}

func (d *inferenceDecoder) fail(path, format string, args ...any) {
	d.violations = append(d.violations, strings.TrimPrefix(path, "$.")+": "+fmt.Sprintf(format, args...))
}

func (d *inferenceDecoder) err() error {
	if len(d.violations) == 0 {
		return nil
	}
	return &domain.InferenceSchemaError{Violations: append([]string(nil), d.violations...)}
}

func joinPath(path, key string) string {
	if path == "$" {
		return key
	}
	return path + "." + key
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (d *inferenceDecoder) object(raw json.RawMessage, path string) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil || obj == nil {
		d.fail(path, "expected an object")
		return nil
	}
	return obj
}

// field devuelve el valor de key; null cuenta como ausente.
func (d *inferenceDecoder) field(obj map[string]json.RawMessage, key, path string, required bool) (json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		if required {
			d.fail(joinPath(path, key), "missing required field")
		}
		return nil, false
	}
	return raw, true
}

func (d *inferenceDecoder) childObject(obj map[string]json.RawMessage, key, path string) map[string]json.RawMessage {
	raw, ok := d.field(obj, key, path, true)
	if !ok {
		return nil
	}
	return d.object(raw, joinPath(path, key))
}

func (d *inferenceDecoder) childArray(obj map[string]json.RawMessage, key, path string) []json.RawMessage {
	raw, ok := d.field(obj, key, path, true)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.fail(joinPath(path, key), "expected an array")
		return nil
	}
	return items
}

func (d *inferenceDecoder) percent(obj map[string]json.RawMessage, key, path string) float64 {
	raw, ok := d.field(obj, key, path, true)
	if !ok {
		return 0
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		d.fail(joinPath(path, key), "expected a number, got %s", truncateForLog(string(raw), 40))
		return 0
	}
	if !domain.InRange100(v) {
		d.fail(joinPath(path, key), "value %v outside [0,100]", v)
		return 0
	}
	return v
}

func (d *inferenceDecoder) text(obj map[string]json.RawMessage, key, path string, required bool) string {
	raw, ok := d.field(obj, key, path, required)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		d.fail(joinPath(path, key), "expected a string")
		return ""
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		d.fail(joinPath(path, key), "must not be empty")
	}
	return s
}

func (d *inferenceDecoder) stringList(obj map[string]json.RawMessage, key, path string) []string {
	raw, ok := d.field(obj, key, path, true)
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		d.fail(joinPath(path, key), "expected an array of strings")
		return nil
	}
	return out
}

// enumField lee un string y verifica que pertenezca a allowed. Opcional admite "" o ausente.
func enumField[T ~string](d *inferenceDecoder, obj map[string]json.RawMessage, key, path string, allowed []T, required bool) T {
	raw, ok := d.field(obj, key, path, required)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		d.fail(joinPath(path, key), "expected a string")
		return ""
	}
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if v == "" && !required {
		return ""
	}
	if !domain.Contains(allowed, v) {
		d.fail(joinPath(path, key), "value %q is not one of %v", s, allowed)
		return ""
	}
	return v
}
