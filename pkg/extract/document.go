package extract

// Element is one image-like node of a document.
type Element interface {
	// Attr returns the attribute value and whether it was present.
	Attr(name string) (string, bool)
	// NaturalSize returns the intrinsic pixel size, or zeros when unknown.
	NaturalSize() (width, height int)
}

// Document enumerates image-like nodes in document order.
type Document interface {
	Images() []Element
}

// Image is an in-memory Element. Snapshots from the browser and test
// fixtures are made of these.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// HasAlt distinguishes a missing alt attribute from an empty one.
	HasAlt bool `json:"hasAlt"`
}

func (i Image) Attr(name string) (string, bool) {
	switch name {
	case "src":
		return i.Src, i.Src != ""
	case "alt":
		return i.Alt, i.HasAlt || i.Alt != ""
	default:
		return "", false
	}
}

func (i Image) NaturalSize() (int, int) {
	return i.Width, i.Height
}

// Images is a Document backed by a slice.
type Images []Image

func (s Images) Images() []Element {
	out := make([]Element, len(s))
	for i := range s {
		out[i] = s[i]
	}
	return out
}
