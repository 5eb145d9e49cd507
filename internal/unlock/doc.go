// Package unlock talks to the remote theme-unlock service.
//
// # Overview
//
// The service is a single HTTP GET endpoint. Every call carries the
// API key, the user's identification code, and an action token in the
// query string; the encrypt and decrypt actions additionally carry the
// text to transform:
//
//	GET <endpoint>?identify=<key>&code=<code>&action=<action>[&content=<text>]
//
// A successful answer is a JSON object with a "result" field and, for
// the aggregate action only, a "goldKey" field.
//
// # Error Policy
//
// Each Request is exactly one attempt. Remote failures (non-200 status,
// transport errors, malformed or empty bodies) come back as descriptive
// errors suitable for relaying to the user, with one hard guarantee:
// the API key never appears in an error string. Transport errors are
// unwrapped before reporting because their text includes the full
// request URL, query string and all.
package unlock
