package reservation

import "time"

const DefaultCheckInterval = 600 * time.Second

// Settings is the user configuration re-read at the start of every cycle.
// Sets only holds valid entries; Rejected explains the ones left out.
type Settings struct {
	Sets          []NotificationSet
	CheckInterval time.Duration
	Rejected      []error
}

func DefaultSettings() Settings {
	return Settings{CheckInterval: DefaultCheckInterval}
}
