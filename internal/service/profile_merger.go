package service

import (
	"sort"
	"strings"
	"time"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// MergeContext aporta lo que el merge necesita ademas del perfil: datos para recalcular
// la completitud y el instante de la sintesis.
type MergeContext struct {
	User          domain.User
	ResponseCount int
	Now           time.Time
}

// MergeInference aplica result sobre una copia de current y devuelve el perfil nuevo junto
// con los insights agregados. current no se modifica.
//
// Politica: cada rasgo y cada bloque de estilo se reemplaza por el valor inferido (la
// inferencia ya ve toda la evidencia acumulada). Los intereses se reemplazan completos.
// Los insights se agregan deduplicando por (titulo, tipo) normalizado.
func MergeInference(current domain.TraitProfile, result domain.InferenceResult, mc MergeContext) (domain.TraitProfile, []domain.Insight) {
	now := mc.Now.UTC()
	next := current.Clone()

	for _, d := range domain.BigFive {
		inf := result.Traits[d]
		ts := now
		next.SetTrait(d, domain.TraitScore{
			Score:       domain.Clamp100(inf.Score),
			Confidence:  domain.Clamp100(inf.Confidence),
			LastUpdated: &ts,
		})
	}

	next.Interests = mergeInterests(result.Interests, now)

	next.CommunicationStyle = domain.CommunicationStyle{
		Primary:    result.CommunicationStyle.Primary,
		Secondary:  result.CommunicationStyle.Secondary,
		Confidence: domain.Clamp100(result.CommunicationStyle.Confidence),
	}
	if next.CommunicationStyle.Primary == "" {
		next.CommunicationStyle.Primary = current.CommunicationStyle.Primary
	}
	next.DecisionStyle = domain.DecisionStyle{
		Style:      result.DecisionStyle.Style,
		Confidence: domain.Clamp100(result.DecisionStyle.Confidence),
	}
	if next.DecisionStyle.Style == "" {
		next.DecisionStyle.Style = current.DecisionStyle.Style
	}
	next.WorkStyle = domain.WorkStyle{
		Collaboration: domain.Clamp100(result.WorkStyle.Collaboration),
		Autonomy:      domain.Clamp100(result.WorkStyle.Autonomy),
		Structure:     domain.Clamp100(result.WorkStyle.Structure),
		Innovation:    domain.Clamp100(result.WorkStyle.Innovation),
	}
	next.SocialPreferences = mergeSocial(current.SocialPreferences, result.SocialPreferences)

	incoming := make([]domain.Insight, 0, len(result.Insights))
	for _, in := range result.Insights {
		incoming = append(incoming, domain.Insight{
			Kind:        in.Kind,
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Confidence:  in.Confidence,
			CreatedAt:   now,
		})
	}
	var added []domain.Insight
	next.Insights, added = appendInsights(next.Insights, incoming)

	ts := now
	next.LastComprehensiveUpdate = &ts
	next.PersonalityUpdates++
	next.CompletionPercentage = Completion(mc.User, next, mc.ResponseCount).Percentage
	return next, added
}

// appendInsights agrega incoming a existing salvo los que repiten (titulo, tipo), ya sea
// contra los existentes o dentro del mismo lote. Devuelve la lista completa y los agregados.
func appendInsights(existing, incoming []domain.Insight) ([]domain.Insight, []domain.Insight) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, in := range existing {
		seen[in.DedupeKey()] = struct{}{}
	}
	out := append([]domain.Insight{}, existing...)
	added := []domain.Insight{}
	for _, in := range incoming {
		if strings.TrimSpace(in.Title) == "" || !domain.Contains(domain.InsightKinds, in.Kind) {
			continue
		}
		key := in.DedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		in.Confidence = domain.Clamp100(in.Confidence)
		out = append(out, in)
		added = append(added, in)
	}
	return out, added
}

func mergeInterests(in []domain.InferredInterest, now time.Time) []domain.Interest {
	out := make([]domain.Interest, 0, len(in))
	for _, it := range in {
		category := strings.ToLower(strings.TrimSpace(it.Category))
		if category == "" {
			continue
		}
		ts := now
		out = append(out, domain.Interest{
			Category:    category,
			Tags:        normalizeTags(it.Tags),
			Confidence:  domain.Clamp100(it.Confidence),
			LastUpdated: &ts,
		})
	}
	return out
}

// normalizeTags aplica trim + minusculas, descarta vacios y duplicados y ordena.
func normalizeTags(tags []string) []string {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		norm := strings.ToLower(strings.TrimSpace(t))
		if norm == "" {
			continue
		}
		set[norm] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func mergeSocial(current, inferred domain.SocialPreferences) domain.SocialPreferences {
	out := current
	if inferred.GroupSize != "" {
		out.GroupSize = inferred.GroupSize
	}
	if inferred.InteractionStyle != "" {
		out.InteractionStyle = inferred.InteractionStyle
	}
	if inferred.LeadershipTendency != "" {
		out.LeadershipTendency = inferred.LeadershipTendency
	}
	return out
}
