//go:build windows
// +build windows

// Package platform provides the OS-level foreground-window source.
package platform

import (
	"fmt"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ctolnik/aw-watcher-window/watcher"
)

var (
	modUser32   = windows.NewLazySystemDLL("user32.dll")
	modKernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetForegroundWindow       = modUser32.NewProc("GetForegroundWindow")
	procGetWindowTextW            = modUser32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId  = modUser32.NewProc("GetWindowThreadProcessId")
	procOpenProcess               = modKernel32.NewProc("OpenProcess")
	procCloseHandle               = modKernel32.NewProc("CloseHandle")
	procQueryFullProcessImageName = modKernel32.NewProc("QueryFullProcessImageNameW")
)

const processQueryLimitedInformation = 0x1000

// WindowSource reads the focused window over the user32/kernel32 API.
type WindowSource struct{}

func NewWindowSource() *WindowSource {
	return &WindowSource{}
}

// ActiveWindow reports the focused window's process name and title.
// No focused window is (nil, nil), not an error.
func (s *WindowSource) ActiveWindow() (*watcher.Window, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, nil
	}

	var processID uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&processID)))

	app, err := processName(processID)
	if err != nil {
		return nil, err
	}

	return &watcher.Window{App: app, Title: windowText(hwnd)}, nil
}

func processName(processID uint32) (string, error) {
	hProcess, _, _ := procOpenProcess.Call(
		processQueryLimitedInformation,
		0,
		uintptr(processID),
	)
	if hProcess == 0 {
		return "", fmt.Errorf("failed to open process %d", processID)
	}
	defer procCloseHandle.Call(hProcess)

	var size uint32 = 260
	nameBuf := make([]uint16, size)

	ret, _, _ := procQueryFullProcessImageName.Call(
		hProcess,
		0,
		uintptr(unsafe.Pointer(&nameBuf[0])),
		uintptr(unsafe.Pointer(&size)),
	)
	if ret == 0 {
		return "", fmt.Errorf("failed to query image name for process %d", processID)
	}

	fullPath := syscall.UTF16ToString(nameBuf[:size])
	if idx := strings.LastIndex(fullPath, `\`); idx >= 0 {
		return fullPath[idx+1:], nil
	}
	return fullPath, nil
}

// windowText returns the window title. Windows without a title yield the
// empty string; GetWindowTextW does not distinguish that from failure.
func windowText(hwnd uintptr) string {
	titleBuf := make([]uint16, 512)
	procGetWindowTextW.Call(
		hwnd,
		uintptr(unsafe.Pointer(&titleBuf[0])),
		uintptr(len(titleBuf)),
	)
	return syscall.UTF16ToString(titleBuf)
}
