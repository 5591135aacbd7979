package service

import (
	"fmt"
	"strings"
)

// AudioURLs expands a verse range into per-ayah recitation URLs on the
// reciter's CDN. File names are the zero-padded surah and ayah
// numbers, e.g. 002255.mp3 for Al-Baqarah 255.
func AudioURLs(surah, startAyah, endAyah int, reciterURL string) []string {
	base := reciterURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var urls []string
	for ayah := startAyah; ayah <= endAyah; ayah++ {
		urls = append(urls, fmt.Sprintf("%s%03d%03d.mp3", base, surah, ayah))
	}

	return urls
}
