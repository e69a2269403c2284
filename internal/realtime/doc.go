// Package realtime implements the live notification transport: a
// channel-addressed, in-process subscription registry with fire-and-forget
// publishing. Delivery is at-most-effort by contract — there is no
// acknowledgement and no redelivery to connections that join after a
// publish. The durable notification records are the recovery path for
// anything a live subscriber misses.
package realtime
