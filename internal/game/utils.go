package game

import (
	"fmt"
	"image"
	"time"
)

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// statusLine is the debug overlay text.
func statusLine(pings, frames int, uptime time.Duration, cursor image.Point) string {
	return fmt.Sprintf("%s  frames %d  pings %d  x %d y %d", formatDuration(uptime), frames, pings, cursor.X, cursor.Y)
}
