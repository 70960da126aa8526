//go:build !windows && !darwin

package internal

// detectSystemLocale reads the locale from the environment only
func detectSystemLocale() string {
	return localeFromEnv()
}
