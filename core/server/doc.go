// Package server holds the HTTP server configuration shared by the service
// mode entry point and the feature handlers.
package server
