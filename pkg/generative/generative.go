// Package generative synthesizes deterministic placeholder photos from a
// search term. It needs no network and is used when no live source is
// available, and for the wall's default content.
package generative

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"photowall/pkg/models"
)

// Count is the number of records Generate returns for a non-blank term.
const Count = 30

// BaseURL is the placeholder image service.
const BaseURL = "https://picsum.photos"

var whitespace = regexp.MustCompile(`\s+`)

var cycle = [3]models.Aspect{models.AspectPortrait, models.AspectLandscape, models.AspectSquare}

// Dimensions returns the fixed pixel size used for an aspect.
func Dimensions(a models.Aspect) (width, height int) {
	switch a {
	case models.AspectPortrait:
		return 400, 600
	case models.AspectLandscape:
		return 600, 400
	default:
		return 500, 500
	}
}

// Seed normalizes a term: trimmed, lower case, whitespace runs collapsed to "-".
func Seed(term string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(term)), "-")
}

// Generate returns Count records for term. The output is a pure function of
// term. A blank term yields nil.
func Generate(term string) []models.Photo {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	seed := Seed(term)
	title := capitalize(term)
	photos := make([]models.Photo, Count)
	for i := range photos {
		aspect := cycle[i%len(cycle)]
		w, h := Dimensions(aspect)
		id := fmt.Sprintf("%s-%d", seed, i)
		photos[i] = models.Photo{
			ID:     id,
			Src:    fmt.Sprintf("%s/seed/%s/%d/%d", BaseURL, id, w, h),
			Alt:    fmt.Sprintf("%s photo %d", term, i+1),
			Title:  fmt.Sprintf("%s %d", title, i+1),
			Aspect: aspect,
		}
	}
	return photos
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Source serves searches from Generate.
type Source struct{}

func (Source) Name() string { return "generative" }

func (Source) Search(_ context.Context, query string) ([]models.Photo, error) {
	return Generate(query), nil
}

// Reachable reports whether the placeholder image service at baseURL answers.
// An empty baseURL checks BaseURL.
func Reachable(ctx context.Context, client *http.Client, baseURL string) bool {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL+"/seed/test/100/100", nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
