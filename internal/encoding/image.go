package encoding

const (
	ImageFormat       = "webp"
	ImageContentType  = "image/webp"
	ImageQuality      = 85
	ImageMaxDimension = 2048
)

// ImagePlan describes the conversion of a single image.
type ImagePlan struct {
	Format  string
	Quality int
	Width   int
	Height  int
	Resize  bool
}

// PlanImage always targets WebP and shrinks anything larger than the cap.
func PlanImage(w, h int) ImagePlan {
	nw, nh := FitWithin(w, h, ImageMaxDimension, ImageMaxDimension)
	return ImagePlan{
		Format:  ImageFormat,
		Quality: ImageQuality,
		Width:   nw,
		Height:  nh,
		Resize:  nw != w || nh != h,
	}
}
