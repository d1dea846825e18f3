// Package inference runs the eye classifier through ONNX Runtime.
package inference

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ErrModelNotFound = errors.New("model file not found")
	ErrInputSize     = errors.New("input tensor size mismatch")
	ErrSessionClosed = errors.New("session closed")
)

type SessionOptions struct {
	ModelPath string
	// RuntimeLibrary points at libonnxruntime; empty uses the loader default.
	RuntimeLibrary string
	InputName      string
	OutputName     string
	ImageSize      int
	NumOutputs     int
}

// Session owns an ONNX Runtime session bound to pre-allocated tensors of
// shape [1,3,S,S] and [1,N]. Runs are serialised because the bound tensors
// are shared.
type Session struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func NewSession(opts SessionOptions) (*Session, error) {
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, opts.ModelPath)
	}

	if opts.RuntimeLibrary != "" {
		ort.SetSharedLibraryPath(opts.RuntimeLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	size := int64(opts.ImageSize)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(opts.NumOutputs)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(opts.ModelPath,
		[]string{opts.InputName}, []string{opts.OutputName},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Run copies data into the input tensor, executes the graph and returns a
// copy of the output scores.
func (s *Session) Run(data []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrSessionClosed
	}

	dst := s.input.GetData()
	if len(data) != len(dst) {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrInputSize, len(dst), len(data))
	}
	copy(dst, data)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	scores := make([]float32, len(s.output.GetData()))
	copy(scores, s.output.GetData())
	return scores, nil
}

// Close releases tensors, the session and the runtime environment.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	ort.DestroyEnvironment()
}
