// Package events provides card lifecycle events and an in-process emitter.
//
// Services emit an event after a change has been committed to the store.
// Handlers, such as the audit log handler or the review counter used by the
// study CLI, subscribe without the services knowing about them.
package events
