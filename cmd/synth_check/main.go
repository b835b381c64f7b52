package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/config"
	"github.com/aaryasekhar/rchxtype/internal/llm"
	"github.com/aaryasekhar/rchxtype/internal/observability"
	"github.com/aaryasekhar/rchxtype/internal/repository"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// synth_check corre la sintesis completa contra el proveedor configurado usando
// personas sinteticas en memoria, y verifica invariantes y direccion de los rasgos.
func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadToolConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	engine, err := llm.NewEngine(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	metrics := observability.NewMetrics()
	engine = observability.NewInstrumentedEngine(engine, llm.ProviderName(engine), metrics)

	now := time.Now().UTC()
	cast := personas(now)

	users := repository.NewMemoryUserRepository()
	responses := repository.NewMemoryResponseRepository()
	signals := repository.NewMemorySignalRepository()
	profiles := repository.NewMemoryProfileRepository()
	for _, p := range cast {
		users.Put(p.User)
		for _, sig := range p.Signals {
			if err := signals.Upsert(ctx, p.User.ID, sig); err != nil {
				log.Fatalf("seed signals: %v", err)
			}
		}
	}

	aggregator := service.NewEvidenceAggregator(users, responses, signals, logger,
		service.WithSampleSizes(cfg.SignalSampleSize, cfg.TagSampleSize))
	adapter := service.NewReasoningAdapter(engine, metrics, logger)
	synthesis := service.NewSynthesisService(aggregator, adapter, users, responses, profiles, nil, metrics, logger, cfg.ReasoningTimeout)
	matching := service.NewMatchingService(profiles, users, repository.NewMemoryPreferencesRepository(), metrics, logger, cfg.MatchConcurrency)

	failed := 0
	for _, p := range cast {
		fmt.Printf("%s[%s]%s %d responses, %d connectors\n", colorCyan, p.User.ID, colorReset, len(p.Responses), len(p.Signals))

		res, err := synthesis.Analyze(ctx, p.User.ID, p.Responses, nil)
		if err != nil {
			fmt.Printf("%sFAIL%s synthesis: %v\n\n", colorRed, colorReset, err)
			failed++
			continue
		}
		fmt.Printf("  %s\n", formatTraits(res.Profile))
		fmt.Printf("  completion %d%% | new insights %d | next: %s\n",
			res.Completion.Percentage, len(res.NewInsights), questionIDs(res.NextQuestions))

		problems := append(checkInvariants(res.Profile), checkExpectations(res.Profile, p.Expectations)...)
		if len(problems) == 0 {
			fmt.Printf("  %sOK%s\n\n", colorGreen, colorReset)
			continue
		}
		failed++
		for _, msg := range problems {
			fmt.Printf("  %sFAIL%s %s\n", colorRed, colorReset, msg)
		}
		fmt.Println()
	}

	fmt.Println("==== Compatibilidad ====")
	for i := range cast {
		for j := i + 1; j < len(cast); j++ {
			a, b := cast[i].User.ID, cast[j].User.ID
			score, err := matching.CompatibilityBetween(ctx, a, b)
			if err != nil {
				fmt.Printf("%s <-> %s: %v\n", a, b, err)
				continue
			}
			fmt.Printf("%s <-> %s: %d (personality %.2f, interests %.2f)\n",
				a, b, score.Score, score.PersonalitySimilarity, score.InterestOverlap)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d personas failed\n", failed, len(cast))
		os.Exit(1)
	}
}
