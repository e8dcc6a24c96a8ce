// Package domain implements the calendar sharing workflow: calendar CRUD,
// helper invitation and removal, and target-list ingestion. The Service
// orchestrates the persistence store, the external calendar mirror, the
// invitation token service, and the mail sender, enforcing the consistency
// rules between local and external state.
package domain
