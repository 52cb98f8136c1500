// Package auth turns a verified external identity into a user row and runs
// the approval workflow around it.
//
// # Identity
//
// OIDCProvider performs the OpenID Connect code flow and yields an Identity.
// Only identities with a verified email are accepted.
//
// # Workflow
//
// Service drives a user through the gate states:
//   - Login creates the user on first sign in (unlinked, unapproved)
//   - LinkCorps moves an unlinked user into its corps
//   - RequestApproval notifies the admins once per user
//   - Approve is the only way a user becomes approved and sends the welcome text
//
// Every method takes an explicit gate.Caller that the web layer rebuilds
// from the store on each request.
//
// # Middleware
//
// RequireCapability protects fiber routes with a gate capability and
// redirects callers in the wrong state to their landing page.
package auth
