package player

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"video-library/internal/logging"
	"video-library/internal/metrics"
	"video-library/internal/scanner"
)

// probeSignal is the null signal: delivery is skipped but liveness and
// permission checking still happen.
var probeSignal = syscall.Signal(0)

// Player supervises a single external mpv process. Starting playback kills
// any previous instance first; the process runs detached from request
// handling and is reaped on Stop or on the next Play.
type Player struct {
	binary string
	mu     sync.Mutex
	cmd    *exec.Cmd
}

// New creates a Player that launches the given binary ("mpv" by default).
func New(binary string) *Player {
	if binary == "" {
		binary = "mpv"
	}
	return &Player{binary: binary}
}

// Installed reports whether the player binary can be found on PATH.
func (p *Player) Installed() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// Play starts playback of videoPath. When subtitlePath is empty, a
// co-located subtitle sharing the video's stem is attached if one exists.
// startPosition seconds, when positive, resumes playback at that offset.
func (p *Player) Play(videoPath, subtitlePath string, startPosition float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	args := []string{
		videoPath,
		"--force-window=yes",
		"--keep-open=yes",
		"--osd-level=1",
		"--input-default-bindings=yes",
		"--input-vo-keyboard=yes",
	}

	if subtitlePath == "" {
		if sub, ok := scanner.FindSubtitle(videoPath); ok {
			subtitlePath = sub
		}
	}
	if subtitlePath != "" {
		args = append(args, "--sub-file="+subtitlePath)
	}
	if startPosition > 0 {
		args = append(args, fmt.Sprintf("--start=%f", startPosition))
	}

	cmd := exec.Command(p.binary, args...)
	if err := cmd.Start(); err != nil {
		metrics.PlayerStartsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to start %s: %w", p.binary, err)
	}

	metrics.PlayerStartsTotal.WithLabelValues("success").Inc()
	logging.Info("Playing %s (pid %d)", videoPath, cmd.Process.Pid)
	p.cmd = cmd
	return nil
}

// Stop kills the running player, if any, and reaps it.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cmd == nil {
		return
	}
	if p.cmd.Process != nil {
		if err := p.cmd.Process.Kill(); err != nil {
			logging.Debug("Player kill: %v", err)
		}
		// Reap so the old process never lingers as a zombie.
		_ = p.cmd.Wait()
	}
	p.cmd = nil
}

// IsRunning reports whether the player process is still alive, reaping it
// if it has exited since the last check.
func (p *Player) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil || p.cmd.Process == nil {
		return false
	}

	// Signal 0 probes liveness without affecting the process.
	if err := p.cmd.Process.Signal(probeSignal); err != nil {
		_ = p.cmd.Wait()
		p.cmd = nil
		return false
	}
	return true
}
