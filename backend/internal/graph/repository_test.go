package graph

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "social-network/backend/pkg/errors"
)

// These tests require a running Neo4j instance at bolt://localhost:7687.
// Run with -short to skip them.

func TestRepository_CreateUser_DuplicateUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	username := testUsername("alice")

	if _, err := repo.CreateUser(ctx, username, "Alice Smith"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := repo.CreateUser(ctx, username, "Someone Else")
	if err == nil {
		t.Fatal("Expected conflict for duplicate username")
	}
	if !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestRepository_CreateUser_EmptyUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	_, err := repo.CreateUser(ctx, "  ", "No Name")
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument error, got %v", err)
	}
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	_, err := repo.GetUser(ctx, "non-existent-user")
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestRepository_FollowUser_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	aliceID := mustCreateUser(t, ctx, repo, testUsername("alice"), "Alice Smith")
	bobID := mustCreateUser(t, ctx, repo, testUsername("bob"), "Bob Johnson")

	created, err := repo.FollowUser(ctx, aliceID, bobID)
	if err != nil {
		t.Fatalf("FollowUser failed: %v", err)
	}
	if !created {
		t.Error("Expected first follow to create the edge")
	}

	created, err = repo.FollowUser(ctx, aliceID, bobID)
	if err != nil {
		t.Fatalf("Second FollowUser failed: %v", err)
	}
	if created {
		t.Error("Expected second follow to be a no-op")
	}

	following, err := repo.ListFollowing(ctx, aliceID)
	if err != nil {
		t.Fatalf("ListFollowing failed: %v", err)
	}
	if len(following) != 1 {
		t.Errorf("Expected exactly one followee, got %d", len(following))
	}
	if len(following) == 1 && following[0].ID != bobID {
		t.Errorf("Expected followee %s, got %s", bobID, following[0].ID)
	}
}

func TestRepository_FollowUser_SelfFollowRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	aliceID := mustCreateUser(t, ctx, repo, testUsername("alice"), "Alice Smith")

	_, err := repo.FollowUser(ctx, aliceID, aliceID)
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument error for self-follow, got %v", err)
	}
}

func TestRepository_FollowUser_MissingEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	aliceID := mustCreateUser(t, ctx, repo, testUsername("alice"), "Alice Smith")

	_, err := repo.FollowUser(ctx, aliceID, "non-existent-user")
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestRepository_UnfollowUser_Inverse(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	aliceID := mustCreateUser(t, ctx, repo, testUsername("alice"), "Alice Smith")
	bobID := mustCreateUser(t, ctx, repo, testUsername("bob"), "Bob Johnson")

	// Unfollow before any follow: edge absent, not an error
	removed, err := repo.UnfollowUser(ctx, aliceID, bobID)
	if err != nil {
		t.Fatalf("UnfollowUser failed: %v", err)
	}
	if removed {
		t.Error("Expected no removal when no edge exists")
	}

	if _, err := repo.FollowUser(ctx, aliceID, bobID); err != nil {
		t.Fatalf("FollowUser failed: %v", err)
	}

	removed, err = repo.UnfollowUser(ctx, aliceID, bobID)
	if err != nil {
		t.Fatalf("UnfollowUser failed: %v", err)
	}
	if !removed {
		t.Error("Expected removal of existing edge")
	}

	following, err := repo.ListFollowing(ctx, aliceID)
	if err != nil {
		t.Fatalf("ListFollowing failed: %v", err)
	}
	if len(following) != 0 {
		t.Errorf("Expected empty following set after unfollow, got %d", len(following))
	}
}

func TestRepository_IsFollowing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	aliceID := mustCreateUser(t, ctx, repo, testUsername("alice"), "Alice Smith")
	bobID := mustCreateUser(t, ctx, repo, testUsername("bob"), "Bob Johnson")

	following, err := repo.IsFollowing(ctx, aliceID, bobID)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if following {
		t.Error("Expected not-following before Follow")
	}

	if _, err := repo.FollowUser(ctx, aliceID, bobID); err != nil {
		t.Fatalf("FollowUser failed: %v", err)
	}

	following, err = repo.IsFollowing(ctx, aliceID, bobID)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if !following {
		t.Error("Expected following after Follow")
	}
}

func TestRepository_CreatePost_MissingAuthor(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	_, err := repo.CreatePost(ctx, "non-existent-user", "hello")
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}

	// A missing user reads as an empty post list, not an error
	posts, err := repo.ListPostsByUser(ctx, "non-existent-user")
	if err != nil {
		t.Fatalf("ListPostsByUser failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("Expected empty post list, got %d", len(posts))
	}
}

func TestRepository_ListPostsByUser_Ordering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	bobID := mustCreateUser(t, ctx, repo, testUsername("bob"), "Bob Johnson")

	if _, err := repo.CreatePost(ctx, bobID, "first"); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := repo.CreatePost(ctx, bobID, "second"); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	posts, err := repo.ListPostsByUser(ctx, bobID)
	if err != nil {
		t.Fatalf("ListPostsByUser failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].Content != "second" || posts[1].Content != "first" {
		t.Errorf("Expected newest-first ordering, got [%s, %s]", posts[0].Content, posts[1].Content)
	}
}

func TestRepository_GetFeed(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t, ctx)
	defer cleanup()

	aliceID := mustCreateUser(t, ctx, repo, testUsername("alice"), "Alice Smith")
	bobID := mustCreateUser(t, ctx, repo, testUsername("bob"), "Bob Johnson")
	charlieID := mustCreateUser(t, ctx, repo, testUsername("charlie"), "Charlie Brown")

	if _, err := repo.FollowUser(ctx, aliceID, bobID); err != nil {
		t.Fatalf("FollowUser failed: %v", err)
	}
	if _, err := repo.FollowUser(ctx, aliceID, charlieID); err != nil {
		t.Fatalf("FollowUser failed: %v", err)
	}

	if _, err := repo.CreatePost(ctx, bobID, "hello from bob"); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := repo.CreatePost(ctx, charlieID, "hello from charlie"); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	// Alice's own post must never appear in her feed
	if _, err := repo.CreatePost(ctx, aliceID, "hello from alice"); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	feed, err := repo.GetFeed(ctx, aliceID)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("Expected 2 feed posts, got %d", len(feed))
	}
	if feed[0].Content != "hello from charlie" || feed[1].Content != "hello from bob" {
		t.Errorf("Expected newest-first feed, got [%s, %s]", feed[0].Content, feed[1].Content)
	}
	for _, post := range feed {
		if post.Username == "" {
			t.Error("Expected denormalized author on feed posts")
		}
	}

	// Bob follows no one, so his feed is empty
	feed, err = repo.GetFeed(ctx, bobID)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("Expected empty feed for bob, got %d posts", len(feed))
	}
}

// Test helpers

// testUsername returns a unique username so tests never collide on the
// store's unique constraint, within a run or across aborted runs.
func testUsername(base string) string {
	return "test-" + base + "-" + uuid.New().String()[:8]
}

func mustCreateUser(t *testing.T, ctx context.Context, repo *Repository, username, name string) string {
	t.Helper()
	id, err := repo.CreateUser(ctx, username, name)
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return id
}

func newTestRepository(t *testing.T, ctx context.Context) (*Repository, func()) {
	t.Helper()

	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	repo := NewRepository(driver)
	if err := repo.InitSchema(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("InitSchema failed: %v", err)
	}

	cleanup := func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, _ = session.Run(ctx,
			"MATCH (u:User) WHERE u.username STARTS WITH $prefix OPTIONAL MATCH (u)-[:POSTED]->(p:Post) DETACH DELETE u, p",
			map[string]interface{}{"prefix": "test-"})
		session.Close(ctx)
		driver.Close(ctx)
	}
	return repo, cleanup
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}
