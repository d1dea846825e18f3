package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/dto"
	"github.com/aouiniamine/eyecheck/internal/imaging"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
)

const (
	LabelUnknown    = "Unknown"
	LabelError      = "Error"
	LabelModelError = "Model Error"

	EyeLeft  = "left"
	EyeRight = "right"
)

// DefaultLabels is the class order the classifier was trained with.
var DefaultLabels = []string{"Myopia", "Normal"}

var ErrModelNotLoaded = errors.New("model not loaded")

// Classifier maps an image to the index of its highest-scoring class.
type Classifier interface {
	Classify(img image.Image) (int, error)
}

// LabelCache memoises labels by a digest of the model identity and the
// decoded image bytes.
type LabelCache interface {
	GetLabel(ctx context.Context, digest string) (string, bool, error)
	SetLabel(ctx context.Context, digest, label string) error
}

type DiagnosisService interface {
	Diagnose(ctx context.Context, leftEye, rightEye string) *dto.PredictResponse
	Ready(ctx context.Context) error
}

type Options struct {
	// Classifier is nil when the model failed to load.
	Classifier Classifier
	// ModelID identifies the loaded artifact, usually its path. Together
	// with Labels it scopes cached results to one model.
	ModelID    string
	Labels     []string
	Cache      LabelCache
	Logger     logger.Logger
	Metrics    *metrics.Manager
}

type diagnosisService struct {
	classifier Classifier
	labels     []string
	cache      LabelCache
	cacheScope string
	log        logger.Logger
	metrics    *metrics.Manager
}

func New(opts Options) DiagnosisService {
	labels := opts.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &diagnosisService{
		classifier: opts.Classifier,
		labels:     append([]string(nil), labels...),
		cache:      opts.Cache,
		cacheScope: cacheScope(opts.ModelID, labels),
		log:        log,
		metrics:    opts.Metrics,
	}
}

func (s *diagnosisService) Ready(context.Context) error {
	if s.classifier == nil {
		return ErrModelNotLoaded
	}
	return nil
}

// Diagnose labels both eyes independently; a failure on one never affects
// the other.
func (s *diagnosisService) Diagnose(ctx context.Context, leftEye, rightEye string) *dto.PredictResponse {
	if s.classifier == nil {
		s.record(EyeLeft, LabelModelError)
		s.record(EyeRight, LabelModelError)
		return &dto.PredictResponse{
			LeftDiagnosis:  LabelModelError,
			RightDiagnosis: LabelModelError,
		}
	}

	resp := &dto.PredictResponse{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		resp.LeftDiagnosis = s.diagnoseEye(ctx, EyeLeft, leftEye)
	}()
	go func() {
		defer wg.Done()
		resp.RightDiagnosis = s.diagnoseEye(ctx, EyeRight, rightEye)
	}()
	wg.Wait()

	return resp
}

func (s *diagnosisService) diagnoseEye(ctx context.Context, eye, payload string) (label string) {
	log := s.log.With(logger.String("eye", eye))
	defer func() {
		if r := recover(); r != nil {
			log.Error(ctx, "prediction panicked", logger.Any("panic", r))
			label = LabelError
		}
		s.record(eye, label)
	}()

	data, err := imaging.DecodeBase64(payload)
	if err != nil {
		log.Warn(ctx, "prediction failed", logger.Error(err))
		return LabelError
	}

	digest := sha256.Sum256(data)
	key := s.cacheScope + ":" + hex.EncodeToString(digest[:])
	if cached, ok := s.lookup(ctx, log, key); ok {
		return cached
	}

	label, err = s.predict(data)
	if err != nil {
		log.Warn(ctx, "prediction failed", logger.Error(err))
		return LabelError
	}

	s.store(ctx, log, key, label)
	return label
}

func (s *diagnosisService) predict(data []byte) (string, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	idx, err := s.classifier.Classify(img)
	if s.metrics != nil {
		s.metrics.ObserveInference(time.Since(start))
	}
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	return s.labelFor(idx), nil
}

// labelFor maps a class index through the label list; indices outside it
// are Unknown.
func (s *diagnosisService) labelFor(idx int) string {
	if idx < 0 || idx >= len(s.labels) {
		return LabelUnknown
	}
	return s.labels[idx]
}

// cacheScope fingerprints the model and its label order so a changed
// artifact or label list never reads another model's cached labels.
func cacheScope(modelID string, labels []string) string {
	sum := sha256.Sum256([]byte(modelID + "\x00" + strings.Join(labels, "\x00")))
	return hex.EncodeToString(sum[:8])
}

func (s *diagnosisService) lookup(ctx context.Context, log logger.Logger, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	label, ok, err := s.cache.GetLabel(ctx, key)
	if err != nil {
		log.Warn(ctx, "diagnosis cache read failed", logger.Error(err))
		return "", false
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(ok)
	}
	return label, ok
}

func (s *diagnosisService) store(ctx context.Context, log logger.Logger, key, label string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetLabel(ctx, key, label); err != nil {
		log.Warn(ctx, "diagnosis cache write failed", logger.Error(err))
	}
}

func (s *diagnosisService) record(eye, label string) {
	if s.metrics != nil {
		s.metrics.RecordDiagnosis(eye, label)
	}
}
