// Package claude models the external agent process that a session talks to.
//
// The package is organized into focused modules:
//   - client.go: Client interface, content blocks, permission primitives
//   - stream.go: typed stream messages emitted while a response is in flight
//   - todo.go: TodoWrite tool parsing
//   - mock_client.go: Mock client for testing
//
// The wire protocol to the real process lives outside this module; consumers
// provide a Client implementation (or use MockClient in tests) and the session
// engine folds the resulting stream into conversation history.
package claude
