package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dxvzz/blend/internal/config"
	"github.com/dxvzz/blend/internal/infra/logger"
	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

type demoUser struct {
	googleID    string
	email       string
	displayName string
	university  string
	campus      string
	course      string
	year        int
	bio         string
	interests   []string
	lookingFor  string
}

var demoUsers = []demoUser{
	{
		googleID: "demo-amara", email: "amara@uni.example", displayName: "Amara",
		university: "UCL", campus: "Bloomsbury", course: "Computer Science", year: 2,
		bio:       "Late-night hack sessions and flat whites.",
		interests: []string{"hackathons", "bouldering", "coffee"}, lookingFor: "study-buddy",
	},
	{
		googleID: "demo-ben", email: "ben@uni.example", displayName: "Ben",
		university: "UCL", campus: "Bloomsbury", course: "Philosophy", year: 3,
		bio:       "Will argue about trolley problems over pints.",
		interests: []string{"debating", "five-a-side", "vinyl"}, lookingFor: "friendship",
	},
	{
		googleID: "demo-chloe", email: "chloe@uni.example", displayName: "Chloe",
		university: "KCL", campus: "Strand", course: "Medicine", year: 4,
		bio:       "Ward rounds by day, salsa by night.",
		interests: []string{"salsa", "baking", "true crime"}, lookingFor: "relationship",
	},
	{
		googleID: "demo-dev", email: "dev@uni.example", displayName: "Dev",
		university: "LSE", campus: "Holborn", course: "Economics", year: 1,
		bio:       "Fresher figuring out where the library is.",
		interests: []string{"cricket", "chess", "cooking"}, lookingFor: "not-sure",
	},
	{
		googleID: "demo-ella", email: "ella@uni.example", displayName: "Ella",
		university: "KCL", campus: "Strand", course: "Law", year: 2,
		bio:       "Moots, mocktails and mooching around Borough Market.",
		interests: []string{"mooting", "running", "photography"}, lookingFor: "friendship",
	},
}

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)

	for _, demo := range demoUsers {
		user, err := userRepo.GetOrCreateByGoogleID(ctx, demo.googleID, demo.email, demo.displayName, "")
		if err != nil {
			log.Fatal("seed user", zap.String("email", demo.email), zap.Error(err))
		}

		if err := profileRepo.Upsert(ctx, pgrepo.ProfileRecord{
			UserID:     user.ID,
			University: demo.university,
			Campus:     demo.campus,
			Course:     demo.course,
			Year:       demo.year,
			Bio:        demo.bio,
			Interests:  demo.interests,
			LookingFor: demo.lookingFor,
			Onboarded:  true,
		}); err != nil {
			log.Fatal("seed profile", zap.String("email", demo.email), zap.Error(err))
		}

		log.Info("seeded demo user", zap.Int64("user_id", user.ID), zap.String("display_name", demo.displayName))
	}

	log.Info("seeding complete", zap.Int("users", len(demoUsers)))
}
