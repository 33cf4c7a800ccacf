// Package domain contains the core business entities, value objects, and
// domain logic of the application: flashcards, their transient study-session
// view, review ratings, and the fixed timestamp profile used for due dates.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
