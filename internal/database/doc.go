// Package database stores the history of cleaning runs in a local
// SQLite database. Every run records its input, parameters, and region
// counts so earlier passes over the same map can be compared and
// parameter tuning has a paper trail. The database lives in the user's
// XDG data directory and is entirely optional: the pipeline never
// touches it.
package database
