// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import "sync"

// InputTransaction is an ordered batch of device events submitted to the
// engine atomically. A transaction is single-use: once submitted it is sealed
// and further additions fail.
type InputTransaction struct {
	mu     sync.Mutex
	events []DeviceEvent
	sealed bool
}

// NewInputTransaction creates an empty transaction with room for n events.
func NewInputTransaction(n int) *InputTransaction {
	return &InputTransaction{events: make([]DeviceEvent, 0, n)}
}

// AddEvent appends an event. Order of insertion is the order of delivery.
func (t *InputTransaction) AddEvent(ev DeviceEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return stateError("InputTransaction.AddEvent", "transaction already submitted")
	}
	if ev == nil {
		return validationError("InputTransaction.AddEvent", "event cannot be nil", nil)
	}
	t.events = append(t.events, ev)
	return nil
}

// Events returns a copy of the events in insertion order.
func (t *InputTransaction) Events() []DeviceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]DeviceEvent, len(t.events))
	copy(out, t.events)
	return out
}

// Len returns the number of events in the transaction.
func (t *InputTransaction) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Sealed reports whether the transaction has been submitted.
func (t *InputTransaction) Sealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sealed
}

// seal marks the transaction as submitted. It fails if the transaction was
// already sealed so that a transaction cannot reach the engine twice.
func (t *InputTransaction) seal() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return stateError("InputTransaction.seal", "transaction already submitted")
	}
	t.sealed = true
	return nil
}

// newTransaction builds a transaction from events produced by the mapper.
func newTransaction(events ...DeviceEvent) *InputTransaction {
	t := NewInputTransaction(len(events))
	t.events = append(t.events, events...)
	return t
}
