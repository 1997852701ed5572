// Package scanner discovers video files under a root directory with a
// bounded recursion depth and turns the resulting per-folder counts into a
// shallow, count-annotated folder tree for browsing. The walk is best
// effort: unreadable directories contribute nothing and never abort it.
package scanner
