package imaging

import (
	"errors"
	"image"

	"github.com/nfnt/resize"
)

var ErrPreprocessor = errors.New("invalid preprocessor")

// Preprocessor resizes to Size x Size and produces a [3, Size, Size] tensor:
// pixel/255 normalised per channel with Mean and Std.
type Preprocessor struct {
	Size int
	Mean [3]float32
	Std  [3]float32
}

// NewPreprocessor validates its inputs; mean and std need three channels.
func NewPreprocessor(size int, mean, std []float64) (*Preprocessor, error) {
	if size <= 0 || len(mean) != 3 || len(std) != 3 {
		return nil, ErrPreprocessor
	}
	p := &Preprocessor{Size: size}
	for i := 0; i < 3; i++ {
		if std[i] == 0 {
			return nil, ErrPreprocessor
		}
		p.Mean[i] = float32(mean[i])
		p.Std[i] = float32(std[i])
	}
	return p, nil
}

// Len is the number of float32 values Tensor returns.
func (p *Preprocessor) Len() int {
	return 3 * p.Size * p.Size
}

// Tensor converts img into the model input layout (channels first).
func (p *Preprocessor) Tensor(img image.Image) []float32 {
	rgb := ToRGB(img)
	resized := resize.Resize(uint(p.Size), uint(p.Size), rgb, resize.Bilinear)
	src := ToRGB(resized)

	plane := p.Size * p.Size
	out := make([]float32, 3*plane)
	for y := 0; y < p.Size; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < p.Size; x++ {
			px := row[x*4 : x*4+3]
			idx := y*p.Size + x
			for c := 0; c < 3; c++ {
				v := float32(px[c]) / 255
				out[c*plane+idx] = (v - p.Mean[c]) / p.Std[c]
			}
		}
	}
	return out
}
