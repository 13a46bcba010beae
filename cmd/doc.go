// Package cmd implements the CLI commands for the SelfLayer client.
//
// # Architecture
//
//   - root.go: Entry point, App struct, cobra command setup, and flags
//   - interactive.go: Interactive REPL session, completion, greeting
//   - key.go: API key management and config bootstrap subcommands
//
// The App struct holds application state. It is created in Execute() and
// wires config, authentication, the API client, the display renderer,
// and the command router together. Interactive input lines and one-shot
// command arguments both flow through the same router, so behavior is
// identical in either mode.
package cmd
