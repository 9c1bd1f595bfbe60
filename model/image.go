package model

// EmbeddedImage describes a raster image embedded in a block. Pixel
// dimensions come from decoding the media part; display dimensions come
// from the drawing extent declared in the document, in inches. A zero
// display dimension means the extent was absent or zero, in which case
// effective DPI is undefined and must be flagged rather than computed.
type EmbeddedImage struct {
	// Name is the media part name, e.g. "image1.png".
	Name string
	// RelID is the relationship ID linking the drawing to its media part.
	RelID string

	PixelWidth  int
	PixelHeight int

	DisplayWidth  float64 // inches
	DisplayHeight float64 // inches
}

// HasDisplaySize reports whether both display dimensions are declared
// and positive.
func (img *EmbeddedImage) HasDisplaySize() bool {
	return img.DisplayWidth > 0 && img.DisplayHeight > 0
}

// HasPixelSize reports whether the media part could be decoded.
func (img *EmbeddedImage) HasPixelSize() bool {
	return img.PixelWidth > 0 && img.PixelHeight > 0
}
