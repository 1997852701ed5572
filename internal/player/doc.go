// Package player supervises an external mpv process for playback: spawn,
// kill, and liveness checks, plus automatic subtitle attachment.
package player
