// Package middleware provides HTTP middleware for the converter service.
//
// It includes:
//   - Cross-origin headers and preflight handling
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded path labels
//   - Response compression (gzip) for JSON and frontend assets
//
// Every response writer wrapper implements Unwrap so that
// http.ResponseController deadlines still reach the connection.
package middleware
