package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "social-network/backend/pkg/errors"
)

// ============================================================================
// User Operations
// ============================================================================

// CreateUser creates a user node with a freshly allocated id. The store's
// unique constraint on username is the arbiter under concurrency: a duplicate
// surfaces as a conflict error, never as a silent success.
func (r *Repository) CreateUser(ctx context.Context, username, name string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperrors.NewInvalidArgument("username", "must not be empty")
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	userID := uuid.New().String()

	query := `
		CREATE (u:User {id: $userID, username: $username, name: $name, created_at: datetime()})
		RETURN u.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":   userID,
		"username": username,
		"name":     name,
	})
	if err == nil {
		_, err = result.Single(ctx)
	}
	if err != nil {
		if isConstraintViolation(err) {
			return "", apperrors.NewUsernameTaken(username, err)
		}
		return "", apperrors.NewStoreQueryFailed("create user", err)
	}

	r.logger.Info("User created",
		zap.String("user_id", userID),
		zap.String("username", username),
	)
	return userID, nil
}

// GetUser fetches a single user by id
func (r *Repository) GetUser(ctx context.Context, userID string) (*User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})
		RETURN u.id as id, u.username as username, u.name as name
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
	})
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("get user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewStoreQueryFailed("get user", err)
		}
		return nil, apperrors.NewUserNotFound(userID)
	}

	record := result.Record()
	return &User{
		ID:       getStringFromRecord(record, "id"),
		Username: getStringFromRecord(record, "username"),
		Name:     getStringFromRecord(record, "name"),
	}, nil
}

// ListUsers returns every user currently in the graph
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User)
		RETURN u.id as id, u.username as username, u.name as name
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("list users", err)
	}

	users := []User{}
	for result.Next(ctx) {
		record := result.Record()
		users = append(users, User{
			ID:       getStringFromRecord(record, "id"),
			Username: getStringFromRecord(record, "username"),
			Name:     getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("list users", err)
	}

	return users, nil
}
