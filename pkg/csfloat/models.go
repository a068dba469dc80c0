package csfloat

// ScreenshotResponse is the body returned by the screenshot endpoint
type ScreenshotResponse struct {
	Sides Sides `json:"sides"`
}

// Sides holds one rendered image per side of the item
type Sides struct {
	Playside Side `json:"playside"`
	Backside Side `json:"backside"`
}

// Side is a single rendered image
type Side struct {
	Path string `json:"path"`
}

// Complete reports whether both image paths are present
func (r *ScreenshotResponse) Complete() bool {
	return r.Sides.Playside.Path != "" && r.Sides.Backside.Path != ""
}
