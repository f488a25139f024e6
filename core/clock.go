package core

// Millisecond clock used to gate the button sampling interval. The owning
// target pushes hardware time into core before each Service call; core never
// reads a hardware timer itself.

// TickHz is the nominal Service cadence.
const TickHz = 1000

// GetTimeMS returns the current system time in milliseconds
func GetTimeMS() uint32 {
	return getSystemMillis()
}

// SetTimeMS sets the current system time (called by targets and tests)
func SetTimeMS(ms uint32) {
	setSystemMillis(ms)
}
