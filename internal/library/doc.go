// Package library coordinates scans against the catalog under a full-replace
// policy and exposes the video, root, and query operations consumed by the
// HTTP layer.
package library
