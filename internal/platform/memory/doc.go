// Package memory provides process-local implementations of the store
// interfaces. A single DB guards all of its data with one RWMutex, and a
// unit of work holds the write lock for its whole duration, restoring a
// snapshot when the function fails. It backs the "memory" database driver
// and the service tests.
package memory
