// Package api implements the SelfLayer API client: a transport for
// single requests, a retry policy for transient failures, pull-based
// streaming sessions for ask responses, and a typed client that layers
// result caching and cache invalidation on top.
package api
