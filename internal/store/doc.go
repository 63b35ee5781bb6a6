// Package store defines interfaces for data persistence operations.
// These interfaces keep the review orchestration and card management
// independent of the SQL backend that stores cards and review history.
package store
