package extract

import (
	"regexp"
	"strconv"
)

var (
	widthParam   = regexp.MustCompile(`([?&])w=(\d+)`)
	qualityParam = regexp.MustCompile(`([?&])q=(\d+)`)
	photoToken   = regexp.MustCompile(`photo-([a-zA-Z0-9_-]+)`)
)

// RequestedWidth returns the value of the first w= query parameter.
func RequestedWidth(src string) (int, bool) {
	m := widthParam.FindStringSubmatch(src)
	if m == nil {
		return 0, false
	}
	w, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return w, true
}

// IsThumbnail reports whether src asks for a width at or below minWidth.
// Sources without a width parameter are never thumbnails.
func IsThumbnail(src string, minWidth int) bool {
	w, ok := RequestedWidth(src)
	return ok && w <= minWidth
}

// RewriteQuality replaces existing w= and q= values. Absent parameters are
// not added.
func RewriteQuality(src string, width, quality int) string {
	src = widthParam.ReplaceAllString(src, "${1}w="+strconv.Itoa(width))
	return qualityParam.ReplaceAllString(src, "${1}q="+strconv.Itoa(quality))
}

// PhotoToken returns the photo token embedded in an image URL.
func PhotoToken(src string) (string, bool) {
	m := photoToken.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return m[1], true
}
