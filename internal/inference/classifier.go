package inference

import (
	"image"

	"github.com/aouiniamine/eyecheck/internal/imaging"
)

// Runner executes a forward pass over a preprocessed tensor.
type Runner interface {
	Run(input []float32) ([]float32, error)
}

// Classifier pairs the fixed preprocessing with a Runner.
type Classifier struct {
	pre    *imaging.Preprocessor
	runner Runner
}

func NewClassifier(pre *imaging.Preprocessor, runner Runner) *Classifier {
	return &Classifier{pre: pre, runner: runner}
}

// Classify returns the index of the highest output score.
func (c *Classifier) Classify(img image.Image) (int, error) {
	scores, err := c.runner.Run(c.pre.Tensor(img))
	if err != nil {
		return -1, err
	}
	return Argmax(scores), nil
}

// Argmax returns the first index holding the maximum, or -1 for no scores.
func Argmax(scores []float32) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i, v := range scores[1:] {
		if v > scores[best] {
			best = i + 1
		}
	}
	return best
}

// Load opens the model session and wraps it in a Classifier whose
// preprocessor matches the session's input size.
func Load(opts SessionOptions, mean, std []float64) (*Session, *Classifier, error) {
	pre, err := imaging.NewPreprocessor(opts.ImageSize, mean, std)
	if err != nil {
		return nil, nil, err
	}

	session, err := NewSession(opts)
	if err != nil {
		return nil, nil, err
	}

	return session, NewClassifier(pre, session), nil
}
