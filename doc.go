// Package roomsapi implements the rooms-api service which brokers ephemeral
// audio/video rooms hosted on the 100ms platform.
//
// The service provides:
//   - Room creation, join and disable keyed by a numeric owner identity
//   - Role-scoped room codes (creator / viewer) minted upstream
//   - A self-refreshing management token for upstream calls
//   - Fixed-window per-client rate limiting
//   - Startup reconciliation and an idle-room sweep
package roomsapi
