// Package middleware provides HTTP request logging and Prometheus metrics
// middleware for the API router.
package middleware
