package inference

import (
	"errors"
	"image"
	"testing"

	"github.com/aouiniamine/eyecheck/internal/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	scores []float32
	err    error
	got    []float32
}

func (f *fakeRunner) Run(input []float32) ([]float32, error) {
	f.got = input
	return f.scores, f.err
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, -1, Argmax(nil))
	assert.Equal(t, 0, Argmax([]float32{3}))
	assert.Equal(t, 1, Argmax([]float32{0.1, 2.5}))
	assert.Equal(t, 2, Argmax([]float32{-4, -3, -1}))
	assert.Equal(t, 0, Argmax([]float32{1, 1}), "ties resolve to the first index")
}

func TestClassifier_Classify(t *testing.T) {
	pre, err := imaging.NewPreprocessor(4, []float64{0.485, 0.456, 0.406}, []float64{0.229, 0.224, 0.225})
	require.NoError(t, err)

	runner := &fakeRunner{scores: []float32{-1.2, 3.4}}
	c := NewClassifier(pre, runner)

	idx, err := c.Classify(image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Len(t, runner.got, pre.Len())
}

func TestClassifier_RunnerError(t *testing.T) {
	pre, err := imaging.NewPreprocessor(4, []float64{0, 0, 0}, []float64{1, 1, 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	c := NewClassifier(pre, &fakeRunner{err: boom})

	idx, err := c.Classify(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, -1, idx)
}

func TestNewSession_MissingModel(t *testing.T) {
	_, err := NewSession(SessionOptions{
		ModelPath:  "testdata/does-not-exist.onnx",
		InputName:  "input",
		OutputName: "output",
		ImageSize:  224,
		NumOutputs: 2,
	})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestLoad_InvalidNormalisation(t *testing.T) {
	_, _, err := Load(SessionOptions{ImageSize: 224, NumOutputs: 2}, []float64{0.5}, []float64{0.5})
	assert.Error(t, err)
}

func TestLoad_MissingModel(t *testing.T) {
	session, clf, err := Load(SessionOptions{
		ModelPath:  "testdata/does-not-exist.onnx",
		InputName:  "input",
		OutputName: "output",
		ImageSize:  224,
		NumOutputs: 2,
	}, []float64{0.485, 0.456, 0.406}, []float64{0.229, 0.224, 0.225})
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Nil(t, session)
	assert.Nil(t, clf)
}
