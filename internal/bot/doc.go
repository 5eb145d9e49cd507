// Package bot implements the chat command layer of unlockbot.
//
// # Overview
//
// A Handler owns the mapping from command words to actions against the
// code store and the remote unlock service. Frontends feed it one
// Message per incoming chat command (prefix already stripped) and send
// the returned reply back to the room. A message whose first word is
// not a registered command is reported as unhandled and produces no
// reply.
//
// # Commands
//
// The command set is assembled at construction from configuration:
//
//   - code: always registered. With no argument it reports the caller's
//     current identification code; with one argument it validates,
//     canonicalizes, and binds a new code.
//   - One command per enabled theme token (orange, blue, pink, lucky,
//     gold, all): fetches the caller's bound code and requests the
//     theme's unlock value from the service.
//   - encrypt, decrypt: registered when the crypto flag is on. Both take
//     the rest of the message as free text and relay the transformed
//     value.
//
// # Error Replies
//
// User mistakes (no bound code, malformed code) get short corrective
// messages. Remote and storage failures are reported as a distinct
// "Unlock request failed" message carrying the cause, so users can tell
// a broken service apart from a missing bind. The unlock client
// guarantees the API key never appears in those causes.
//
// # Concurrency
//
// Dispatch is safe for concurrent use: handlers keep no mutable state
// on the Handler, and per-user consistency is the store's job.
package bot
