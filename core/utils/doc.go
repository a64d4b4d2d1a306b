// Package utils provides common utility functions for the admanager-sync
// application. It currently holds the type-coercion helpers used to
// normalise loosely typed inputs (JSON payloads, CLI arguments) before they
// reach the core packages.
package utils
