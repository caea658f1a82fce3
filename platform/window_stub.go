//go:build !windows
// +build !windows

// Package platform provides the OS-level foreground-window source.
package platform

import (
	"fmt"
	"runtime"

	"github.com/ctolnik/aw-watcher-window/watcher"
)

// WindowSource reads the focused window (stub for non-Windows).
type WindowSource struct{}

func NewWindowSource() *WindowSource {
	return &WindowSource{}
}

// ActiveWindow reports the focused window (stub).
func (s *WindowSource) ActiveWindow() (*watcher.Window, error) {
	return nil, fmt.Errorf("window tracking is not supported on %s", runtime.GOOS)
}
