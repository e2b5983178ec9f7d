// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduling logic: the review service only sees ProgressStore,
// ReviewStore and DeckReader, handed to it through a UnitOfWork so that
// the read, compute, write and append steps of a review commit together.
package store
