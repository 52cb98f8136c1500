// Package main provides the entry point for satext, a group texting web application.
// Signed-in corps members compose a message, pick one of their corps' recipient
// groups and the application sends one SMS per recipient through the configured
// messaging gateway, keeping a delivery log of every successful send.
// New users link themselves to a corps and wait for an administrator's approval
// before they can send.
package main
