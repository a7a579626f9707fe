// Package notifications sends optional ntfy push notifications for
// generation outcomes.
package notifications
