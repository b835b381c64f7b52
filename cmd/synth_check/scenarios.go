package main

import (
	"time"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// Persona es un usuario sintetico con evidencia conocida y la direccion esperada de algunos rasgos.
type Persona struct {
	User         domain.User
	Responses    []domain.ResponseRecord
	Signals      []domain.ExternalSignal
	Expectations []Expectation
}

func dob(year int) *time.Time {
	t := time.Date(year, 5, 10, 0, 0, 0, 0, time.UTC)
	return &t
}

func personas(now time.Time) []Persona {
	return []Persona{
		{
			User: domain.User{ID: "persona-explorer", Email: "explorer@example.com", FirstName: "Iris", LastName: "Vidal", Location: "Lisbon", Bio: "Backpacked through 30 countries, now learning Japanese.", DateOfBirth: dob(1993)},
			Responses: []domain.ResponseRecord{
				{QuestionID: "personality_1", AnswerText: "I love them, abstract ideas are the fun part of any conversation.", Category: domain.CategoryPersonality},
				{QuestionID: "personality_2", AnswerText: "Curiosity, always. I book trips to places I cannot pronounce.", Category: domain.CategoryPersonality},
				{QuestionID: "personality_4", AnswerText: "Energized. I host dinners for twenty people every month.", Category: domain.CategoryPersonality},
				{QuestionID: "interests_1", AnswerText: "Travel, language exchanges and experimental cooking.", Category: domain.CategoryInterests},
				{QuestionID: "behavior_3", AnswerText: "Honestly I enjoy it, plans are a suggestion.", Category: domain.CategoryBehavior},
			},
			Signals: []domain.ExternalSignal{
				{Connector: domain.ConnectorSpotify, LastSync: now, Sections: map[string][]domain.SignalItem{
					"top_artists": {{Title: "Khruangbin", Tags: []string{"psychedelic", "world"}}, {Title: "Fela Kuti", Tags: []string{"afrobeat"}}},
				}, Tags: []string{"world", "psychedelic", "afrobeat", "jazz"}},
			},
			Expectations: []Expectation{
				{Dimension: domain.DimensionOpenness, Direction: High},
				{Dimension: domain.DimensionExtraversion, Direction: High},
			},
		},
		{
			User: domain.User{ID: "persona-planner", Email: "planner@example.com", FirstName: "Tomas", LastName: "Berg", Location: "Oslo", Bio: "Accountant, keeps a bullet journal since 2012.", DateOfBirth: dob(1985)},
			Responses: []domain.ResponseRecord{
				{QuestionID: "personality_3", AnswerText: "Every evening I plan the next day in detail and I almost never deviate.", Category: domain.CategoryPersonality},
				{QuestionID: "personality_4", AnswerText: "Drained. I prefer a quiet evening with one friend.", Category: domain.CategoryPersonality},
				{QuestionID: "behavior_1", AnswerText: "Spreadsheets, pros and cons, and I sleep on it.", Category: domain.CategoryBehavior},
				{QuestionID: "behavior_3", AnswerText: "It stresses me out, I need time to re-plan.", Category: domain.CategoryBehavior},
				{QuestionID: "preferences_1", AnswerText: "small", Category: domain.CategoryPreferences},
			},
			Signals: []domain.ExternalSignal{
				{Connector: domain.ConnectorYouTube, LastSync: now, Sections: map[string][]domain.SignalItem{
					"subscriptions": {{Title: "Personal finance basics"}, {Title: "Chess openings explained"}},
				}, Tags: []string{"finance", "chess", "productivity"}},
			},
			Expectations: []Expectation{
				{Dimension: domain.DimensionConscientiousness, Direction: High},
				{Dimension: domain.DimensionExtraversion, Direction: Low},
			},
		},
		{
			User: domain.User{ID: "persona-empty", Email: "empty@example.com"},
			Responses: []domain.ResponseRecord{
				{QuestionID: "interests_4", AnswerText: "both", Category: domain.CategoryInterests},
			},
		},
	}
}
