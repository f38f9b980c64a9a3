// Package store holds the task persistence backends: MongoDB, Neo4j and
// SQLite (through GORM). Every backend honors the same contract:
//
//   - List returns tasks ordered by creation time, newest first.
//   - Create assigns the ID and stores the remaining fields as given.
//   - Update only touches the supplied fields plus the update timestamp.
//   - Update and Delete return ErrNotFound when the ID does not resolve,
//     including IDs the backend cannot even parse.
package store

import "errors"

// ErrNotFound is returned when no task matches the given ID.
var ErrNotFound = errors.New("task not found")
