// Package useragent extracts a coarse browser/OS/device summary from a
// raw User-Agent header. Best effort only; unknown agents map to "Other".
package useragent

import "strings"

type Info struct {
	Browser string
	OS      string
	Device  string
}

// Sniff classifies the given User-Agent string.
func Sniff(ua string) Info {
	lower := strings.ToLower(ua)

	info := Info{Browser: "Other", OS: "Other", Device: "Desktop"}

	// Order matters: Edge and Opera embed "chrome", Chrome embeds "safari".
	switch {
	case strings.Contains(lower, "edg/"), strings.Contains(lower, "edge"):
		info.Browser = "Edge"
	case strings.Contains(lower, "opr/"), strings.Contains(lower, "opera"):
		info.Browser = "Opera"
	case strings.Contains(lower, "firefox"):
		info.Browser = "Firefox"
	case strings.Contains(lower, "chrome"):
		info.Browser = "Chrome"
	case strings.Contains(lower, "safari"):
		info.Browser = "Safari"
	}

	switch {
	case strings.Contains(lower, "android"):
		info.OS = "Android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ios"):
		info.OS = "iOS"
	case strings.Contains(lower, "windows"):
		info.OS = "Windows"
	case strings.Contains(lower, "mac os"), strings.Contains(lower, "macintosh"):
		info.OS = "macOS"
	case strings.Contains(lower, "linux"):
		info.OS = "Linux"
	}

	if strings.Contains(lower, "mobile") || info.OS == "Android" || info.OS == "iOS" {
		info.Device = "Mobile"
	}
	if strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet") {
		info.Device = "Tablet"
	}

	return info
}
