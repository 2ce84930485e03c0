package graph

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "social-network/backend/pkg/errors"
)

// ============================================================================
// Post Operations
// ============================================================================

// CreatePost creates a post node and its POSTED edge in one statement, so a
// post can never exist without an author. The timestamp is stamped with
// nanosecond resolution; feed ordering depends on it.
func (r *Repository) CreatePost(ctx context.Context, authorID, content string) (string, error) {
	if authorID == "" {
		return "", apperrors.NewInvalidArgument("author id", "must not be empty")
	}
	if strings.TrimSpace(content) == "" {
		return "", apperrors.NewInvalidArgument("content", "must not be empty")
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	postID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	query := `
		MATCH (u:User {id: $authorID})
		CREATE (u)-[:POSTED]->(p:Post {id: $postID, content: $content, timestamp: datetime($now)})
		RETURN p.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"authorID": authorID,
		"postID":   postID,
		"content":  content,
		"now":      now,
	})
	if err != nil {
		return "", apperrors.NewStoreQueryFailed("create post", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", apperrors.NewStoreQueryFailed("create post", err)
		}
		// MATCH found no author, so nothing was created
		return "", apperrors.NewUserNotFound(authorID)
	}

	r.logger.Info("Post created",
		zap.String("post_id", postID),
		zap.String("author_id", authorID),
	)
	return postID, nil
}

// ListPostsByUser returns all posts authored by userID, most recent first.
// An unknown user yields an empty slice, not an error.
func (r *Repository) ListPostsByUser(ctx context.Context, userID string) ([]Post, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})-[:POSTED]->(p:Post)
		RETURN p.id as id, p.content as content, p.timestamp as timestamp,
		       u.username as username, u.name as name
		ORDER BY p.timestamp DESC
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
	})
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("list posts", err)
	}

	return collectPosts(ctx, result)
}

// collectPosts drains a result whose records carry post columns plus the
// denormalized author columns.
func collectPosts(ctx context.Context, result neo4j.ResultWithContext) ([]Post, error) {
	posts := []Post{}
	for result.Next(ctx) {
		record := result.Record()
		posts = append(posts, Post{
			ID:        getStringFromRecord(record, "id"),
			Content:   getStringFromRecord(record, "content"),
			Timestamp: getTimeFromRecord(record, "timestamp"),
			Username:  getStringFromRecord(record, "username"),
			Name:      getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("collect posts", err)
	}
	return posts, nil
}
