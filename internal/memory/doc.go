// Package memory configures Go's soft memory limit from container limits.
//
// In Kubernetes, pass the pod's memory limit via the Downward API as
// MEMORY_LIMIT and [ConfigureFromEnv] will set GOMEMLIMIT to a fraction of
// it, leaving headroom for the external player and image decoding.
package memory
