// Package api contains the HTTP layer: the Google Chat webhook handler
// plus the shared response helpers and middleware it is served behind.
package api
