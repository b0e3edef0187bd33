package chat

import "time"

// turnDoneMsg is sent when the controller has finished processing a turn
// and the transcript should be re-read.
type turnDoneMsg struct{}

// spinnerTickMsg animates the thinking indicator while a turn is in
// flight.
type spinnerTickMsg time.Time
