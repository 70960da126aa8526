//go:build darwin

package internal

import (
	"os/exec"
	"strings"
)

// detectSystemLocale prefers terminal overrides in the environment, then the
// AppleLocale preference ("en_US", "sv_SE")
func detectSystemLocale() string {
	if locale := localeFromEnv(); locale != "" {
		return locale
	}
	if skipSystemLocale {
		return ""
	}

	out, err := exec.Command("defaults", "read", "-g", "AppleLocale").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
