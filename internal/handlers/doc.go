// Package handlers provides HTTP request handlers for the video library API.
//
// It includes handlers for:
//   - Folder scanning and folder tree browsing
//   - Catalog listing, lookup, move, and delete
//   - Tags, participants, and languages management
//   - Playback positions and external player control
//   - Thumbnail serving
//   - Health checks, stats, and version info
package handlers
