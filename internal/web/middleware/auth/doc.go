// Package auth provides the session middleware. It resolves the session
// cookie to a user id and loads a fresh caller from the store for every
// request, so approval and corps changes apply without signing in again.
package auth
