// Package session provides the immutable key/value state threaded through a
// scenario run.
//
// Every step body receives the current Session and returns the next one.
// Sessions are never updated in place, which lets the engine restart a retry
// region from the session it had on entry, and lets concurrent runs proceed
// without any locking.
//
// Sessions render to canonical JSON (sorted keys, NFC strings) for golden
// comparison and run history, and expose a domain-separated SHA-256 digest of
// that rendering.
package session
