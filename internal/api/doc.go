// Package api implements the HTTP handlers for the review endpoints. The
// handlers translate JSON requests into review.Service calls and map the
// domain error classes to status codes; routing and middleware ordering
// live in cmd/server.
package api
