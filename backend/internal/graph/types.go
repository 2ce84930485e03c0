package graph

import "time"

// ============================================================================
// Graph Types
// ============================================================================

// User represents a user node in the graph
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Post represents a post node, with its author denormalized
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
}

// Profile contains aggregated information about a user
type Profile struct {
	User      User   `json:"user"`
	Posts     []Post `json:"posts"`
	Followers []User `json:"followers"`
	Following []User `json:"following"`
}
