package player

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// Launcher starts the configured external media player for a file.
// The player runs detached; we only record that it was launched.
type Launcher struct {
	playerPath string
}

func NewLauncher(playerPath string) *Launcher {
	return &Launcher{playerPath: playerPath}
}

// BuildArgs assembles the player command line. Subtitle flags cover
// the two common players; anything else just gets the file path.
func (l *Launcher) BuildArgs(filePath, subtitlePath string) []string {
	args := []string{filePath}
	if subtitlePath == "" {
		return args
	}
	switch {
	case strings.Contains(l.playerPath, "mpv"):
		args = append(args, "--sub-file="+subtitlePath)
	case strings.Contains(l.playerPath, "vlc"):
		args = append(args, "--sub-file", subtitlePath)
	default:
		args = append(args, subtitlePath)
	}
	return args
}

// Launch starts the player and returns without waiting for it to
// exit. The process is reaped in the background so it never zombies.
func (l *Launcher) Launch(filePath, subtitlePath string) error {
	if l.playerPath == "" {
		return fmt.Errorf("no player configured")
	}
	args := l.BuildArgs(filePath, subtitlePath)
	cmd := exec.Command(l.playerPath, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch player: %w", err)
	}
	log.Printf("Player launched (pid %d): %s", cmd.Process.Pid, filePath)
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Player exited with error: %v", err)
		}
	}()
	return nil
}
