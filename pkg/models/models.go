package models

import "time"

// Aspect is the coarse layout bucket of a photo.
type Aspect string

const (
	AspectPortrait  Aspect = "portrait"
	AspectLandscape Aspect = "landscape"
	AspectSquare    Aspect = "square"
)

// Photo is one image on the wall. Values are never mutated after creation.
type Photo struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title"`
	Aspect Aspect `json:"aspectRatio"`
}

// SearchResponse is returned by /api/search.
type SearchResponse struct {
	Query  string  `json:"query"`
	Count  int     `json:"count"`
	Photos []Photo `json:"photos"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Point is a pointer position in view coordinates.
type Point struct {
	X float64
	Y float64
}

// IDs returns the ids of photos in order.
func IDs(photos []Photo) []string {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return ids
}
