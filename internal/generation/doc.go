// Package generation drives the submit-and-poll workflow for podcast
// generation jobs and owns the idle/submitting/polling/ready/failed state
// machine.
package generation
