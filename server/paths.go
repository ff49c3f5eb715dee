package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Paths locates the files the daemon and its clients share.
type Paths struct {
	Socket string
	PID    string
	Log    string
}

// DefaultPaths puts the socket, PID file and log next to the executable.
func DefaultPaths() (Paths, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Paths{}, fmt.Errorf("error getting executable path: %w", err)
	}
	return PathsIn(filepath.Dir(execPath)), nil
}

func PathsIn(dir string) Paths {
	return Paths{
		Socket: filepath.Join(dir, "typethrough.sock"),
		PID:    filepath.Join(dir, "typethrough.pid"),
		Log:    filepath.Join(dir, "typethrough.log"),
	}
}

// daemonRunning reports whether the PID file names a live process.
func daemonRunning(pidPath string) (bool, int) {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0
	}

	// On Unix, Signal(0) checks if process exists
	err = process.Signal(syscall.Signal(0))
	return err == nil, pid
}
