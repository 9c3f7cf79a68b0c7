// Package testing puts the process into test mode when imported for side
// effects, so binaries and runtime helpers never dial Postgres or Gotenberg.
package testing

import (
	"os"
	stdtesting "testing"
)

var defaults = map[string]string{
	"MUZAINI_TEST_MODE": "1",
	"GOTENBERG_URL":     "http://127.0.0.1:0",
	"DEFAULT_LANG":      "ar",
}

func init() {
	for key, value := range defaults {
		if key == "MUZAINI_TEST_MODE" || os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// TestMain runs m once the environment above is in place.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
