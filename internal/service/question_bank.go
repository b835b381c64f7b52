package service

import "github.com/aaryasekhar/rchxtype/internal/domain"

// questionBank es el cuestionario estatico. El orden dentro de cada categoria es el orden de entrega.
var questionBank = []domain.Question{
	{ID: "personality_1", Category: domain.CategoryPersonality, Text: "How comfortable are you exploring unconventional or abstract ideas?"},
	{ID: "personality_2", Category: domain.CategoryPersonality, Text: "When you face something completely new, is your first reaction curiosity or caution?"},
	{ID: "personality_3", Category: domain.CategoryPersonality, Text: "How often do you plan your day in advance and stick to the plan?"},
	{ID: "personality_4", Category: domain.CategoryPersonality, Text: "After spending time with many people, do you feel energized or drained?"},
	{ID: "personality_5", Category: domain.CategoryPersonality, Text: "When something goes wrong, does it stay with you for a long time or do you move on quickly?"},
	{ID: "personality_6", Category: domain.CategoryPersonality, Text: "In a disagreement, do you tend to give in, negotiate or hold your ground?"},

	{ID: "interests_1", Category: domain.CategoryInterests, Text: "What do you usually do in your free time?"},
	{ID: "interests_2", Category: domain.CategoryInterests, Text: "Which kinds of music, films or books do you keep coming back to?"},
	{ID: "interests_3", Category: domain.CategoryInterests, Text: "What topic could you talk about for hours?"},
	{ID: "interests_4", Category: domain.CategoryInterests, Text: "Do you prefer indoor or outdoor activities?", Options: []string{"indoor", "outdoor", "both"}},

	{ID: "values_1", Category: domain.CategoryValues, Text: "What matters most to you in a close relationship?"},
	{ID: "values_2", Category: domain.CategoryValues, Text: "Would you rather have stability or adventure in your life right now?", Options: []string{"stability", "adventure", "a mix"}},
	{ID: "values_3", Category: domain.CategoryValues, Text: "Which cause or principle would you defend even at a personal cost?"},

	{ID: "preferences_1", Category: domain.CategoryPreferences, Text: "Do you prefer small gatherings or large social events?", Options: []string{"small", "medium", "large", "depends"}},
	{ID: "preferences_2", Category: domain.CategoryPreferences, Text: "How do you like to communicate with people you are getting to know?"},
	{ID: "preferences_3", Category: domain.CategoryPreferences, Text: "Do you work best alone, in pairs or in a team?", Options: []string{"alone", "pairs", "team"}},

	{ID: "behavior_1", Category: domain.CategoryBehavior, Text: "How do you usually make important decisions?"},
	{ID: "behavior_2", Category: domain.CategoryBehavior, Text: "When a group has no leader, what role do you tend to take?"},
	{ID: "behavior_3", Category: domain.CategoryBehavior, Text: "How do you react when plans change at the last minute?"},
}

// QuestionByID busca una pregunta del banco por id.
func QuestionByID(id string) (domain.Question, bool) {
	for _, q := range questionBank {
		if q.ID == id {
			return cloneQuestion(q), true
		}
	}
	return domain.Question{}, false
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
