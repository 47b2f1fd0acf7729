package onboarding

import "time"

// timeNow is a package-level variable for testability.
// Tests replace it to freeze UpdatedAt stamps.
var timeNow = time.Now
