package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "social-network/backend/pkg/errors"
)

// ============================================================================
// Feed Operations
// ============================================================================

// GetFeed returns every post authored by someone userID follows, newest
// first across the whole union. Each post has exactly one POSTED edge, so
// the traversal cannot yield duplicates. A user who follows no one gets an
// empty feed, not an error.
func (r *Repository) GetFeed(ctx context.Context, userID string) ([]Post, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (me:User {id: $userID})-[:FOLLOWS]->(other:User)-[:POSTED]->(p:Post)
		RETURN p.id as id, p.content as content, p.timestamp as timestamp,
		       other.username as username, other.name as name
		ORDER BY p.timestamp DESC
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
	})
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("get feed", err)
	}

	return collectPosts(ctx, result)
}
