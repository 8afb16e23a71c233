package configs

import (
	"os"
	"testing"
)

// unsetAll removes every config key for the duration of the test.
func unsetAll(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(k, "") // registers restore on cleanup
		os.Unsetenv(k)
	}
}
