// Package oidc provides handlers for the OpenID Connect sign-in flow.
//
//	GET /auth/oidc/login    - redirect to the provider with a fresh state token
//	GET /auth/oidc/callback - verify state and code, register or load the user,
//	                          start a session
//
// State tokens live in the session storage for five minutes and are
// accepted once.
package oidc
