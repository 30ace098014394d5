// Package client implements the resilient HTTP surface of the MindLit API:
// a request layer that attaches the stored session credential at call time,
// retries transient failures with a bounded constant-delay policy, and reacts
// to credential rejection by clearing the stored token and forcing the
// session to anonymous.
//
// Every failure is classified into exactly one of four kinds before control
// returns to the caller: network error, server error, client error, or auth
// rejection. Application code branches on the classification, never on raw
// transport errors.
//
// Retry policy, deliberately simple:
//   - retried: no response received, or a 5xx response
//   - not retried: any 4xx response
//   - at most 3 retries (4 attempts total), fixed delay between attempts,
//     no jitter and no exponential backoff
//
// A 401 additionally clears the CredentialStore and notifies the auth
// rejection handler before the failure is surfaced. The clear is idempotent,
// so concurrent rejections are harmless.
package client
