package model

import "strings"

// SanitizeFilename replaces every character outside [A-Za-z0-9_.\- ] with '_'
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		case r == '_', r == '.', r == '-', r == ' ':
			return r
		default:
			return '_'
		}
	}, name)
}

// MediaFileName is the deterministic file name of a downloaded video
func MediaFileName(title string) string {
	return SanitizeFilename(title) + ".mp4"
}
