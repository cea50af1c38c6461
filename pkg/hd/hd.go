// Package hd maps a wall photo to the URL of its high resolution original.
package hd

import (
	"fmt"
	"regexp"
	"strings"

	"photowall/pkg/extract"
	"photowall/pkg/generative"
	"photowall/pkg/models"
)

const (
	UnsplashWidth   = 1920
	UnsplashQuality = 90
	// LongEdge is the longer side of an upscaled placeholder
	LongEdge  = 1800
	ShortEdge = 1200
)

var (
	seedPath     = regexp.MustCompile(`/seed/([^/]+)/(\d+)/(\d+)`)
	fitLeading   = regexp.MustCompile(`\?fit=[^&]*&?`)
	fitFollowing = regexp.MustCompile(`&fit=[^&]*`)
)

// URL returns the high resolution URL for photo. Sources from unknown hosts
// come back unchanged.
func URL(photo models.Photo) string {
	src := photo.Src
	switch {
	case strings.Contains(src, "images.unsplash.com"):
		return unsplash(src)
	case strings.HasPrefix(src, generative.BaseURL):
		return placeholder(src)
	default:
		return src
	}
}

func unsplash(src string) string {
	src = extract.RewriteQuality(src, UnsplashWidth, UnsplashQuality)
	src = fitFollowing.ReplaceAllString(src, "")
	src = fitLeading.ReplaceAllString(src, "?")
	return strings.TrimSuffix(src, "?")
}

func placeholder(src string) string {
	m := seedPath.FindStringSubmatch(src)
	if m == nil {
		return src
	}
	seed := m[1]
	w, h := ShortEdge, ShortEdge
	switch m[2] + "x" + m[3] {
	case "400x600":
		w, h = ShortEdge, LongEdge
	case "600x400":
		w, h = LongEdge, ShortEdge
	}
	return fmt.Sprintf("%s/seed/%s/%d/%d", generative.BaseURL, seed, w, h)
}
