package graph

import (
	"context"
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "social-network/backend/pkg/errors"
	"social-network/backend/pkg/logger"
)

// Repository handles all Neo4j database operations. It is the sole owner of
// write access to the graph; transports call it and never touch the driver.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// InitSchema creates the uniqueness constraints the graph relies on.
// Safe to run on every startup.
func (r *Repository) InitSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	queries := []string{
		`CREATE CONSTRAINT unique_user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_username IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE`,
		`CREATE CONSTRAINT unique_post_id IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE`,
	}

	for _, query := range queries {
		if _, err := session.Run(ctx, query, nil); err != nil {
			return apperrors.NewStoreQueryFailed("init schema", err)
		}
	}

	r.logger.Info("Graph constraints ensured")
	return nil
}

// isConstraintViolation reports whether err is a Neo4j uniqueness
// constraint failure, as opposed to a connectivity or syntax error.
func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return strings.Contains(neoErr.Code, "ConstraintValidationFailed") ||
			strings.Contains(neoErr.Code, "ConstraintViolation")
	}
	return false
}
