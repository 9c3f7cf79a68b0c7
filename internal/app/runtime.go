package app

import (
	"os"
	"sync/atomic"
)

// TestModeEnv marks a process started by go test; binaries exit early.
const TestModeEnv = "MUZAINI_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether the application should skip runtime side effects.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	return RefreshTestMode()
}

// RefreshTestMode re-reads the environment and returns the new value.
func RefreshTestMode() bool {
	on := os.Getenv(TestModeEnv) == "1"
	testMode.Store(&on)
	return on
}
