// Package store persists capture groups and artifacts in SQLite.
//
// It implements the persistence coordinator's storage collaborator: the first
// artifact submitted for a group allocates the group's sequence number inside
// a transaction, every later artifact of the group reuses it, and
// resubmissions are idempotent. Payload bytes live as sequence-numbered files
// under the capture directory; the database carries the group and artifact
// metadata plus per-user setting overrides.
package store
