package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"anthologiser/internal/naming"
)

// CheckDirectoryAccess verifies that path is a readable and writable
// directory, or that it can be created below its closest existing ancestor.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
		}
		ancestor, ok := existingAncestor(path)
		if !ok {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create below %s: %v)", path, ancestor, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func existingAncestor(path string) (string, bool) {
	dir := filepath.Clean(path)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
		if info, err := os.Stat(dir); err == nil {
			return dir, info.IsDir()
		}
	}
}

// CheckAliases verifies that the alias table parses.
func CheckAliases(path string) Result {
	const name = "Alias table"
	aliases, err := naming.LoadAliases(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if aliases == nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (absent, no aliases)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d aliases)", path, aliases.Len())}
}

// CheckWorks verifies that the work-id table is readable.
func CheckWorks(path string) Result {
	const name = "Works table"
	works, err := naming.LoadWorks(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d works)", path, len(works))}
}
