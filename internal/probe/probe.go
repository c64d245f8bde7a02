// Package probe checks whether the storage-engine binaries are usable
// before a run starts, so a misconfigured path fails with a clear reason
// instead of a stream of exec errors mid-run.
package probe

import (
	"fmt"
	"os"
)

// Result reports whether the engine is usable and why not.
type Result struct {
	Usable bool
	Reason string // explanation when unusable
}

// Binaries verifies that each path exists and is an executable file.
func Binaries(paths ...string) Result {
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return Result{false, fmt.Sprintf("stat %s failed: %v", p, err)}
		}
		if st.IsDir() {
			return Result{false, fmt.Sprintf("%s is a directory", p)}
		}
		if st.Mode().Perm()&0o111 == 0 {
			return Result{false, fmt.Sprintf("%s is not executable", p)}
		}
	}
	return Result{Usable: true}
}
