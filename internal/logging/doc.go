// Package logging provides a simple leveled logging interface for the
// converter service.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (engine progress, artifact churn)
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. Messages about a single conversion can be
// tagged with the job id through [ForJob].
package logging
