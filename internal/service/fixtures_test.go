package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/llm"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testUser(id string) domain.User {
	dob := time.Date(1994, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.User{
		ID:          id,
		Email:       id + "@example.com",
		FirstName:   "Ana",
		LastName:    "Lopez",
		Bio:         "Trail runner and amateur pianist",
		Location:    "Madrid",
		DateOfBirth: &dob,
		CreatedAt:   fixedNow.AddDate(-1, 0, 0),
	}
}

func sampleResponses() []domain.ResponseRecord {
	return []domain.ResponseRecord{
		{QuestionID: "personality_1", AnswerText: "I enjoy abstract ideas a lot", Category: domain.CategoryPersonality},
		{QuestionID: "interests_1", AnswerText: "Concerts and hiking", Category: domain.CategoryInterests, Confidence: 80},
	}
}

// mutateSample decodifica SampleInference, aplica fn y lo vuelve a serializar.
func mutateSample(t *testing.T, fn func(m map[string]any)) string {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(llm.SampleInference), &m); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	fn(m)
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	return string(raw)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return out.GetCounter().GetValue()
}

func profileWith(userID string, score, confidence float64, tags ...string) domain.TraitProfile {
	p := domain.NewTraitProfile(userID)
	for _, d := range domain.BigFive {
		p.SetTrait(d, domain.TraitScore{Score: score, Confidence: confidence})
	}
	if len(tags) > 0 {
		p.Interests = []domain.Interest{{Category: "music", Tags: tags, Confidence: 50}}
	}
	return p
}

// seedLog agrega n respuestas ya preparadas al log del usuario.
func seedLog(t *testing.T, repo *repository.MemoryResponseRepository, userID string, n int) {
	t.Helper()
	records := make([]domain.ResponseRecord, n)
	for i := range records {
		records[i] = domain.ResponseRecord{
			ID:         fmt.Sprintf("seed-%d", i),
			UserID:     userID,
			QuestionID: fmt.Sprintf("personality_%d", i%6+1),
			AnswerText: "seeded answer",
			Category:   domain.CategoryPersonality,
			Confidence: domain.DefaultResponseConfidence,
			AnsweredAt: fixedNow,
		}
	}
	if err := repo.Append(context.Background(), records); err != nil {
		t.Fatalf("seed log: %v", err)
	}
}
