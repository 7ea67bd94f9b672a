package history

import "time"

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Now returns the current UTC time in the store's timestamp format.
func Now() string {
	return timeNow().UTC().Format("2006-01-02 15:04:05")
}
