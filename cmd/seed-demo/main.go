package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/config"
	"github.com/prepverse/prepverse-backend/internal/database"
	"github.com/prepverse/prepverse-backend/internal/logger"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/pattern"
	"github.com/prepverse/prepverse-backend/internal/repository"
	"github.com/prepverse/prepverse-backend/internal/service"
)

// Seeds a local environment with demo candidates, a demo author admin and
// one published GRAND_TEST_MINI test so the full attempt flow can be
// exercised end to end without manual setup. Idempotent: re-running
// skips anything that already exists.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	candidateRepo := repository.NewCandidateRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	authService := service.NewAuthService(cfg, rdb)
	candidateService := service.NewCandidateService(candidateRepo, authService)
	adminService := service.NewAdminService(adminRepo, authService)
	testService := service.NewTestService(testRepo, questionRepo, attemptRepo, rdb, log)

	fmt.Println("=== Seeding Demo Data ===")

	// ─── Demo author admin ─────────────────────────────────────────────
	const authorEmail = "author@prepverse.local"

	var authorID int
	existing, err := adminRepo.GetByEmail(ctx, authorEmail)
	switch {
	case err == nil:
		authorID = existing.ID
		fmt.Printf("Found existing author admin (ID %d)\n", authorID)
	case errors.Is(err, pgx.ErrNoRows):
		admin, err := adminService.Create(ctx, authorEmail, "Demo Author", "author123")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create author admin")
		}
		authorID = admin.ID
		fmt.Printf("Created author admin (ID %d)\n", authorID)
	default:
		log.Fatal().Err(err).Msg("Failed to check author admin")
	}

	// ─── Demo candidates ───────────────────────────────────────────────
	names := []string{
		"Ananya Sharma", "Rohan Mehta", "Priya Nair", "Arjun Reddy", "Kavya Iyer",
		"Vikram Singh", "Sneha Kulkarni", "Aditya Joshi", "Meera Pillai", "Rahul Verma",
	}

	created := 0
	for i, name := range names {
		email := fmt.Sprintf("candidate%02d@prepverse.local", i+1)
		_, err := candidateService.Register(ctx, &model.CreateCandidateRequest{
			Email:    email,
			Name:     name,
			Password: "candidate123",
		})
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				continue
			}
			log.Fatal().Err(err).Str("email", email).Msg("Failed to create candidate")
		}
		created++
	}
	fmt.Printf("Candidates: %d created, %d already present\n", created, len(names)-created)

	// ─── Demo test ─────────────────────────────────────────────────────
	const patternID = "GRAND_TEST_MINI"
	p, ok := pattern.Get(patternID)
	if !ok {
		log.Fatal().Str("pattern", patternID).Msg("Pattern missing from catalog")
	}

	demoTest := &model.Test{
		Title:          "Demo Grand Test Mini",
		PatternID:      patternID,
		AuthorID:       authorID,
		RankingEnabled: true,
	}
	if err := testService.Create(ctx, demoTest); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo test")
	}
	fmt.Printf("Created test %s\n", demoTest.ID)

	// One generated question per pattern slot, correct option cycling
	// through A-D so attempts produce a score spread.
	questions := make([]model.Question, 0, p.TotalQuestions())
	for _, tmpl := range p.Sections {
		for i := 1; i <= tmpl.QuestionCount; i++ {
			opts, _ := json.Marshal([]string{
				fmt.Sprintf("Option A for S%dQ%d", tmpl.SectionNumber, i),
				fmt.Sprintf("Option B for S%dQ%d", tmpl.SectionNumber, i),
				fmt.Sprintf("Option C for S%dQ%d", tmpl.SectionNumber, i),
				fmt.Sprintf("Option D for S%dQ%d", tmpl.SectionNumber, i),
			})
			questions = append(questions, model.Question{
				SectionNumber: tmpl.SectionNumber,
				QuestionText:  fmt.Sprintf("Demo question %d of section %d?", i, tmpl.SectionNumber),
				Options:       opts,
				CorrectOption: i % 4,
				OrderNum:      i,
			})
		}
	}
	if err := testService.ReplaceQuestions(ctx, demoTest.ID, authorID, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to load demo questions")
	}
	fmt.Printf("Loaded %d questions\n", len(questions))

	if err := testService.Publish(ctx, demoTest.ID, authorID); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish demo test")
	}
	fmt.Println("Published demo test")

	fmt.Println("=== Done ===")
	fmt.Println("Candidate login: candidate01@prepverse.local / candidate123")
	fmt.Println("Admin login:     author@prepverse.local / author123")
}
