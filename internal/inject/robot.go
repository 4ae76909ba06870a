package inject

import (
	"time"

	"github.com/go-vgo/robotgo"
)

// RobotDevice drives the real pointer through robotgo.
type RobotDevice struct{}

func (RobotDevice) Move(x, y int) {
	robotgo.Move(x, y)
}

func (RobotDevice) Press(button string) {
	robotgo.Toggle(button)
}

func (RobotDevice) Release(button string) {
	robotgo.Toggle(button, "up")
}

func (RobotDevice) Sleep(d time.Duration) {
	robotgo.MilliSleep(int(d / time.Millisecond))
}
