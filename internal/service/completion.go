package service

import (
	"math"
	"strings"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

const (
	completionUnitsTotal      = 12
	completionResponsesNeeded = 10
)

// Completion calcula el porcentaje de completitud del perfil sobre un checklist fijo de 12 unidades:
// nombre, apellido y email; confianza > 0 en cada uno de los cinco rasgos; confianza > 0 en
// estilo de comunicacion y de decision; al menos un interes; al menos 10 respuestas.
func Completion(user domain.User, profile domain.TraitProfile, responseCount int) domain.CompletionStatus {
	units := 0
	for _, s := range []string{user.FirstName, user.LastName, user.Email} {
		if strings.TrimSpace(s) != "" {
			units++
		}
	}
	for _, d := range domain.BigFive {
		if profile.Trait(d).Confidence > 0 {
			units++
		}
	}
	if profile.CommunicationStyle.Confidence > 0 {
		units++
	}
	if profile.DecisionStyle.Confidence > 0 {
		units++
	}
	if len(profile.Interests) > 0 {
		units++
	}
	if responseCount >= completionResponsesNeeded {
		units++
	}

	return domain.CompletionStatus{
		Percentage:     int(math.Round(100 * float64(units) / completionUnitsTotal)),
		UnitsCompleted: units,
		UnitsTotal:     completionUnitsTotal,
	}
}
