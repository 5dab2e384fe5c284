package usecase

import "time"

// timeNow is swapped in tests that pin timestamps.
var timeNow = func() time.Time { return time.Now().UTC() }
