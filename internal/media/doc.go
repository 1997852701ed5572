// Package media generates and caches downscaled thumbnail renditions of the
// artwork images discovered next to videos.
package media
