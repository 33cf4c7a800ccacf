// Package service contains the application use cases for managing cards.
// It orchestrates interactions between domain objects and the card store
// (defined in internal/store) and publishes card events after each write.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a specific database. Writes that
// read before they modify run inside a transaction via store.RunInTransaction.
//
// Review scheduling lives in the card_review subpackage.
package service
