package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"social-network/backend/internal/graph"
	"social-network/backend/pkg/config"
	"social-network/backend/pkg/logger"
)

// Seeds the graph with the sample users the app ships with. Safe to re-run:
// an already-populated store is left untouched unless -force is given.
func main() {
	force := flag.Bool("force", false, "Seed even if users already exist")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver)

	log.Info("Ensuring constraints...")
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	existing, err := repo.ListUsers(ctx)
	if err != nil {
		log.Fatal("Failed to list users", zap.Error(err))
	}
	if len(existing) > 0 && !*force {
		log.Info("Store already has users, skipping seed (use -force to seed anyway)",
			zap.Int("user_count", len(existing)),
		)
		return
	}

	samples := []struct {
		username string
		name     string
	}{
		{"alice", "Alice Smith"},
		{"bob", "Bob Johnson"},
		{"charlie", "Charlie Brown"},
	}

	for _, s := range samples {
		userID, err := repo.CreateUser(ctx, s.username, s.name)
		if err != nil {
			log.Fatal("Failed to create sample user",
				zap.String("username", s.username),
				zap.Error(err),
			)
		}
		log.Info("Sample user created",
			zap.String("username", s.username),
			zap.String("user_id", userID),
		)
	}

	log.Info("Seeding complete")
}
