//go:build darwin

package tracking

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

extern CGEventRef goClickTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFMachPortRef createClickTap(uintptr_t handle) {
	CGEventMask mask = CGEventMaskBit(kCGEventLeftMouseDown) | CGEventMaskBit(kCGEventRightMouseDown);
	return CGEventTapCreate(kCGSessionEventTap,
	                        kCGHeadInsertEventTap,
	                        kCGEventTapOptionListenOnly,
	                        mask,
	                        goClickTapCallback,
	                        (void *)handle);
}

static CFRunLoopSourceRef attachTap(CFMachPortRef tap) {
	CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
	if (source == NULL) {
		return NULL;
	}
	CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
	CGEventTapEnable(tap, true);
	return source;
}

static void detachTap(CFMachPortRef tap, CFRunLoopSourceRef source) {
	CGEventTapEnable(tap, false);
	CFRunLoopRemoveSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
	CFRelease(source);
	CFRelease(tap);
}

static void enableTap(CFMachPortRef tap) {
	CGEventTapEnable(tap, true);
}

static void runLoopFor(double seconds) {
	CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, false);
}

static double eventX(CGEventRef event) {
	return CGEventGetLocation(event).x;
}

static double eventY(CGEventRef event) {
	return CGEventGetLocation(event).y;
}
*/
import "C"

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"runtime/cgo"
	"unsafe"
)

const subscriptionHint = "grant this binary Accessibility/Input Monitoring access in System Settings, or run it with sudo"

// runLoopSlice is how long one CFRunLoop pass blocks before ctx is rechecked.
const runLoopSlice = 0.25

// tapSource listens through a Quartz event tap created listen-only, so the
// original event always continues to its destination.
type tapSource struct {
	opts SourceOptions
}

type tapStream struct {
	tap    C.CFMachPortRef
	handle func(ClickEvent)
	opts   SourceOptions
}

// NewSource returns the listener for this platform.
func NewSource(opts SourceOptions) Source {
	return &tapSource{opts: opts.withDefaults()}
}

func (s *tapSource) Listen(ctx context.Context, ready func(), handle func(ClickEvent)) error {
	// The tap's run loop source belongs to this thread's run loop
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	stream := &tapStream{handle: handle, opts: s.opts}
	h := cgo.NewHandle(stream)
	defer h.Delete()

	tap := C.createClickTap(C.uintptr_t(h))
	if tap == 0 {
		return fmt.Errorf("CGEventTapCreate returned NULL: %w", ErrSubscription)
	}
	stream.tap = tap

	source := C.attachTap(tap)
	if source == 0 {
		C.CFRelease(C.CFTypeRef(tap))
		return fmt.Errorf("create run loop source for event tap: %w", ErrSubscription)
	}
	defer C.detachTap(tap, source)

	ready()

	for ctx.Err() == nil {
		C.runLoopFor(C.double(runLoopSlice))
	}
	return nil
}

func (s *tapStream) dispatch(eventType C.CGEventType, event C.CGEventRef) {
	switch eventType {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		s.opts.Logger.Warn("event tap disabled by the system, re-enabling")
		C.enableTap(s.tap)
		return
	case C.kCGEventLeftMouseDown, C.kCGEventRightMouseDown:
	default:
		return
	}

	button := ButtonLeft
	if eventType == C.kCGEventRightMouseDown {
		button = ButtonRight
	}
	s.handle(ClickEvent{
		X:      int(math.Floor(float64(C.eventX(event)))),
		Y:      int(math.Floor(float64(C.eventY(event)))),
		Time:   s.opts.Clock(),
		Button: button,
	})
}

//export goClickTapCallback
func goClickTapCallback(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	stream, ok := cgo.Handle(uintptr(userInfo)).Value().(*tapStream)
	if ok {
		stream.dispatch(eventType, event)
	}
	// Listen-only: hand the event back untouched
	return event
}
