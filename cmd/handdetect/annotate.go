package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/cruiser-KPI/hand-recognition/models"
	"github.com/cruiser-KPI/hand-recognition/models/postprocess"
	"github.com/cruiser-KPI/hand-recognition/util"
)

var classColors = map[models.Label]color.RGBA{
	models.LeftHand:   {0, 255, 0, 0},
	models.RightHand:  {0, 0, 255, 0},
	models.Background: {255, 0, 0, 0},
}

// annotate draws boxes on a copy of img scaled by scale and writes it to
// the path returned by util.AnnotatedPath.
func annotate(img image.Image, boxes []postprocess.ClassifiedBox, classes *models.ClassSet, scale float64, dir, name string) (string, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return "", errors.Wrap(err, "convert image")
	}
	defer mat.Close()

	if scale != 1 {
		scaled := gocv.NewMat()
		defer scaled.Close()
		gocv.Resize(mat, &scaled, image.Point{}, scale, scale, gocv.InterpolationLinear)
		mat, scaled = scaled, mat
	}

	for _, b := range boxes {
		c := classColors[b.Class]
		r := image.Rect(
			int(float64(b.X0)*scale), int(float64(b.Y0)*scale),
			int(float64(b.X1+1)*scale), int(float64(b.Y1+1)*scale),
		)
		gocv.Rectangle(&mat, r, c, 2)

		label := fmt.Sprintf("%s (%.1f)", classes.Name(b.Class), b.Confidence)
		origin := image.Pt(r.Min.X, max(r.Min.Y-6, 12))
		gocv.PutText(&mat, label, origin, gocv.FontHersheyPlain, 1.2, c, 2)
	}

	out := util.AnnotatedPath(dir, name)
	if !gocv.IMWrite(out, mat) {
		return "", errors.Errorf("failed to write %s", out)
	}
	return out, nil
}
