// Package database manages the optional MySQL connection used by the sync
// audit trail.
//
// The connection is optional: when it is disabled or unreachable the rest of
// the application keeps working and simply records nothing. Connections are
// pooled and verified with a ping at startup.
package database
