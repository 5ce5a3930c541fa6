package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("STRATOS_TEST_MODE") == "" {
			_ = os.Setenv("STRATOS_TEST_MODE", "1")
		}
	})
}
