// Package logging provides leveled logging with environment-based
// configuration (LOG_LEVEL, DEBUG).
package logging
