package battery

import (
	"time"

	"github.com/abhisek/mindcheck/internal/checkin"
)

// spinnerTickMsg polls for the prepared battery and animates the wait.
type spinnerTickMsg time.Time

// regeneratedMsg is sent when a forced rewrite completes.
type regeneratedMsg struct {
	Battery *checkin.Battery
	Err     error
}
