// Package metrics declares the Prometheus collectors exported by the
// video library service.
package metrics
