package proposals

// Proposal method names understood by New.
const (
	MethodWindow   = "window"
	MethodEdges    = "edges"
	MethodContours = "contours"
)

// Config selects and tunes a proposal generator.
type Config struct {
	// Method is the registered generator name.
	Method string `json:"method" yaml:"method"`
	// MaxProposals caps the number of rectangles per image. Larger sets are
	// thinned evenly across all scales and levels. 0 means no cap.
	MaxProposals int `json:"max_proposals" yaml:"max_proposals"`

	Window   WindowConfig   `json:"window"   yaml:"window"`
	Edges    EdgesConfig    `json:"edges"    yaml:"edges"`
	Contours ContoursConfig `json:"contours" yaml:"contours"`
}

// WindowConfig tunes the sliding window generator.
type WindowConfig struct {
	// MinSize is the side of the smallest window in pixels.
	MinSize int `json:"min_size" yaml:"min_size"`
	// MaxSize is the side of the largest window. 0 uses the shorter image side.
	MaxSize int `json:"max_size" yaml:"max_size"`
	// ScaleStep multiplies the window side between scales. Must be above 1.
	ScaleStep float64 `json:"scale_step" yaml:"scale_step"`
	// Stride is the step between windows as a fraction of the window side.
	Stride float64 `json:"stride" yaml:"stride"`
}

// EdgesConfig tunes the edge segmentation generator.
type EdgesConfig struct {
	// MaxSide downscales larger images before segmentation. 0 disables it.
	MaxSide int `json:"max_side" yaml:"max_side"`
	// BlurRadius is the gaussian blur radius applied before edge detection.
	BlurRadius float64 `json:"blur_radius" yaml:"blur_radius"`
	// Levels are the edge magnitude thresholds; each yields its own segmentation.
	Levels []uint8 `json:"levels" yaml:"levels"`
	// DilateRadius closes gaps in the edge mask. 0 disables it.
	DilateRadius float64 `json:"dilate_radius" yaml:"dilate_radius"`
	// MinArea drops components whose bounding box is smaller, in pixels of the original image.
	MinArea int `json:"min_area" yaml:"min_area"`
}

// ContoursConfig tunes the OpenCV contour generator.
type ContoursConfig struct {
	// BlurSize is the odd gaussian kernel size applied before Canny.
	BlurSize int `json:"blur_size" yaml:"blur_size"`
	// Thresholds are the low Canny thresholds; the high threshold is twice the low one.
	Thresholds []float32 `json:"thresholds" yaml:"thresholds"`
	// DilateSize is the side of the rectangular dilation kernel. 0 disables dilation.
	DilateSize int `json:"dilate_size" yaml:"dilate_size"`
	// MinArea drops contours whose bounding box is smaller, in pixels.
	MinArea int `json:"min_area" yaml:"min_area"`
}

// DefaultConfig returns the edge segmentation generator with its defaults.
func DefaultConfig() Config {
	return Config{
		Method:       MethodEdges,
		MaxProposals: 2000,
		Window: WindowConfig{
			MinSize:   40,
			ScaleStep: 1.5,
			Stride:    0.5,
		},
		Edges: EdgesConfig{
			MaxSide:      640,
			BlurRadius:   2,
			Levels:       []uint8{32, 64, 128},
			DilateRadius: 2,
			MinArea:      900,
		},
		Contours: ContoursConfig{
			BlurSize:   5,
			Thresholds: []float32{25, 50, 100},
			DilateSize: 5,
			MinArea:    900,
		},
	}
}
