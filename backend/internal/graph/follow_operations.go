package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "social-network/backend/pkg/errors"
)

// ============================================================================
// Follow Operations
// ============================================================================

// FollowUser creates the FOLLOWS edge from follower to followee. The
// membership check and the MERGE run in one statement, so concurrent calls
// on the same pair cannot produce a duplicate edge. The returned bool is
// true when a new edge was created, false when the edge already existed;
// both are success. Self-follows are rejected.
func (r *Repository) FollowUser(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" || followeeID == "" {
		return false, apperrors.NewInvalidArgument("user id", "must not be empty")
	}
	if followerID == followeeID {
		return false, apperrors.NewInvalidArgument("followee id", "users cannot follow themselves")
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (a:User {id: $followerID})
		MATCH (b:User {id: $followeeID})
		OPTIONAL MATCH (a)-[existing:FOLLOWS]->(b)
		WITH a, b, existing IS NOT NULL as already
		MERGE (a)-[:FOLLOWS]->(b)
		RETURN already
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerID": followerID,
		"followeeID": followeeID,
	})
	if err != nil {
		return false, apperrors.NewStoreQueryFailed("follow user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return false, apperrors.NewStoreQueryFailed("follow user", err)
		}
		// One of the endpoints does not exist; no edge was created
		return false, apperrors.NewUserNotFound(followerID + " or " + followeeID)
	}

	created := !getBoolFromRecord(result.Record(), "already")
	if created {
		r.logger.Info("Follow edge created",
			zap.String("follower_id", followerID),
			zap.String("followee_id", followeeID),
		)
	}
	return created, nil
}

// UnfollowUser removes the FOLLOWS edge if present. Returns whether a
// removal actually occurred; a missing edge is not an error.
func (r *Repository) UnfollowUser(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" || followeeID == "" {
		return false, apperrors.NewInvalidArgument("user id", "must not be empty")
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (a:User {id: $followerID})
		MATCH (b:User {id: $followeeID})
		OPTIONAL MATCH (a)-[f:FOLLOWS]->(b)
		WITH f, f IS NOT NULL as removed
		DELETE f
		RETURN removed
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerID": followerID,
		"followeeID": followeeID,
	})
	if err != nil {
		return false, apperrors.NewStoreQueryFailed("unfollow user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return false, apperrors.NewStoreQueryFailed("unfollow user", err)
		}
		return false, apperrors.NewUserNotFound(followerID + " or " + followeeID)
	}

	removed := getBoolFromRecord(result.Record(), "removed")
	if removed {
		r.logger.Info("Follow edge removed",
			zap.String("follower_id", followerID),
			zap.String("followee_id", followeeID),
		)
	}
	return removed, nil
}

// IsFollowing reports whether the FOLLOWS edge exists, as a single atomic
// read. Unknown users simply read as not-following.
func (r *Repository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:User {id: $followerID})
		OPTIONAL MATCH (a)-[f:FOLLOWS]->(b:User {id: $followeeID})
		RETURN f IS NOT NULL as following
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerID": followerID,
		"followeeID": followeeID,
	})
	if err != nil {
		return false, apperrors.NewStoreQueryFailed("is following", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return false, apperrors.NewStoreQueryFailed("is following", err)
		}
		return false, nil
	}

	return getBoolFromRecord(result.Record(), "following"), nil
}

// ListFollowers returns the users that follow userID
func (r *Repository) ListFollowers(ctx context.Context, userID string) ([]User, error) {
	query := `
		MATCH (f:User)-[:FOLLOWS]->(u:User {id: $userID})
		RETURN f.id as id, f.username as username, f.name as name
	`
	return r.listRelatedUsers(ctx, "list followers", query, userID)
}

// ListFollowing returns the users that userID follows
func (r *Repository) ListFollowing(ctx context.Context, userID string) ([]User, error) {
	query := `
		MATCH (u:User {id: $userID})-[:FOLLOWS]->(f:User)
		RETURN f.id as id, f.username as username, f.name as name
	`
	return r.listRelatedUsers(ctx, "list following", query, userID)
}

func (r *Repository) listRelatedUsers(ctx context.Context, operation, query, userID string) ([]User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
	})
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed(operation, err)
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
		return nil, apperrors.NewStoreQueryFailed(operation, err)
	}

	return users, nil
}
