// Package audit emits security-relevant events as RFC5424 syslog lines and
// optionally persists them to a dedicated audit database. Audit logging is
// best effort: failures to record an event never fail the operation that
// produced it.
package audit
