// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package txn

import "fmt"

// The four error kinds every operation resolves to. All are handled locally
// by the operation and surface to the client as a catalog notice; none
// propagate as fatal errors.

// ValidationError reports a malformed or ineligible request, detected
// before any lock is taken or before Begin.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports a concurrency conflict detected at an atomic check
// point: the resource was taken by another flow first. Nothing was applied,
// so no rollback is needed.
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s no longer available", e.Resource)
}

// CapacityError reports a full slot, a full inventory or a currency cap
// overflow, detected after Begin. The operation rolls back before
// returning it.
type CapacityError struct {
	Resource string
	Message  string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Message)
}

// PersistenceError reports a failed or timed-out commit barrier. The whole
// transaction has been rolled back for every participant when it is
// returned.
type PersistenceError struct {
	Participant int
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence confirmation failed for participant %d: %v", e.Participant, e.Err)
}

// Unwrap returns the underlying confirmer error.
func (e *PersistenceError) Unwrap() error { return e.Err }
