//go:build windows

package tracking

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

const subscriptionHint = "run the tracker from an interactive desktop session; elevated windows only report clicks to an elevated tracker"

const (
	whMouseLL     = 14
	hcAction      = 0
	wmQuit        = 0x0012
	wmLButtonDown = 0x0201
	wmRButtonDown = 0x0204
	pmNoRemove    = 0x0000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
)

type point struct {
	X, Y int32
}

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd     windows.Handle
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

// llSource listens through a WH_MOUSE_LL hook. The hook procedure always
// chains to CallNextHookEx so the click reaches its window unchanged.
type llSource struct {
	opts SourceOptions
}

// NewSource returns the listener for this platform.
func NewSource(opts SourceOptions) Source {
	return &llSource{opts: opts.withDefaults()}
}

func (s *llSource) Listen(ctx context.Context, ready func(), handle func(ClickEvent)) error {
	// Low-level hooks are called on the installing thread's message loop
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var hookHandle uintptr
	proc := windows.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
		if int32(nCode) == hcAction {
			switch uint32(wParam) {
			case wmLButtonDown, wmRButtonDown:
				info := (*msllHookStruct)(unsafe.Pointer(lParam))
				button := ButtonLeft
				if uint32(wParam) == wmRButtonDown {
					button = ButtonRight
				}
				handle(ClickEvent{
					X:      int(info.Pt.X),
					Y:      int(info.Pt.Y),
					Time:   s.opts.Clock(),
					Button: button,
				})
			}
		}
		ret, _, _ := procCallNextHookEx.Call(hookHandle, nCode, wParam, lParam)
		return ret
	})

	h, _, err := procSetWindowsHookExW.Call(whMouseLL, proc, 0, 0)
	if h == 0 {
		return fmt.Errorf("SetWindowsHookExW(WH_MOUSE_LL): %v: %w", err, ErrSubscription)
	}
	hookHandle = h
	defer procUnhookWindowsHookEx.Call(hookHandle)

	// Make sure the thread has a queue before anyone posts WM_QUIT to it
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)
	tid := windows.GetCurrentThreadId()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
		case <-stopped:
		}
	}()

	ready()

	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("GetMessageW: %v", err)
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}
