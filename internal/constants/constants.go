// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultAPITimeout is the timeout for buffered API requests
	DefaultAPITimeout = 30 * time.Second
	// DefaultStreamTimeout is the timeout for streaming ask requests
	// (token-by-token responses can take a while)
	DefaultStreamTimeout = 120 * time.Second
)

// Application defaults
const (
	// DefaultBaseURL is the production SelfLayer API endpoint
	DefaultBaseURL = "https://api.selflayer.com/api/v1"
	// DefaultPageSize is the number of items fetched per listing page
	DefaultPageSize = 20
	// DefaultContextLimit is the knowledge-context window sent with ask requests
	DefaultContextLimit = 10
	// UserAgent identifies this client to the API
	UserAgent = "selflayer-cli/2.0 (SelfLayer Terminal Client)"
)

// Cache defaults
const (
	// DefaultCacheTTL is the expiry applied to listing and search results
	DefaultCacheTTL = 60 * time.Second
	// NotificationCacheTTL is shorter so unread counts stay fresh
	NotificationCacheTTL = 30 * time.Second
	// ProfileCacheTTL is long because the profile rarely changes
	ProfileCacheTTL = 5 * time.Minute
	// DefaultCacheEntries bounds the in-memory result cache
	DefaultCacheEntries = 128
)
