// Package mindlit provides the authentication core for the MindLit
// book-summary service: password hashing, JWT session token issuance and
// verification, identity resolution backed by Bun repositories, and the
// fiber controller exposing the /auth endpoints.
//
// Session model:
//   - Tokens are HS256 JWTs signed with a process-wide key configured at
//     startup. Expiry is the only termination guarantee; there is no
//     server-side revocation list. Rotating the key invalidates every
//     outstanding token.
//   - Verification failures (malformed, bad signature, expired) are kept
//     distinct internally but collapse into a single 401 presentation so the
//     response never leaks which check failed.
//
// The companion packages middleware/jwtware and client implement the
// server-side gate and the resilient client half of the session lifecycle.
package mindlit
