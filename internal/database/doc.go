// Package database implements the persistent video catalog over SQLite:
// path-keyed upsert, folder-scoped bulk deletion, mounted-root registration,
// taxonomy associations, and the compiled filter/sort/paginate listing
// queries. The store is a shared, mutually exclusive resource; the scan
// commit holds its lock across the clear and refill steps.
package database
