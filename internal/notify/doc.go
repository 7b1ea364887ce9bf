// Package notify turns domain events (comments, mentions, assignments) into
// stored notifications and detached push batches.
//
// NotifyComment and NotifyAssignment on Notifier are the only entry points
// for domain code. They never return errors: notification failures are
// logged and must not affect the action that triggered them.
package notify
