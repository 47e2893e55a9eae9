// Package guard switches binaries into test mode when blank-imported from a test.
package guard

import (
	"os"
	"sync"
)

// Mirrors app.TestModeEnv.
const testModeEnv = "PHARMACY_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(testModeEnv) == "" {
			_ = os.Setenv(testModeEnv, "1")
		}
	})
}
