// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the user home and config directories at dir for the rest of
// the test. Tests using it must not run in parallel.
//
// Platform handling:
//   - Windows: sets USERPROFILE and APPDATA
//   - Linux/macOS: sets HOME and XDG_CONFIG_HOME
func SetHomeDir(t *testing.T, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("USERPROFILE", dir)
		t.Setenv("APPDATA", dir)
	default:
		t.Setenv("HOME", dir)
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
}
