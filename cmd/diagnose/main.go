package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aouiniamine/eyecheck/internal/config"
	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/service"
	"github.com/aouiniamine/eyecheck/internal/inference"
	"github.com/aouiniamine/eyecheck/pkg/logger"
)

func main() {
	left := flag.String("left", "", "Left eye image file (required)")
	right := flag.String("right", "", "Right eye image file (required)")
	model := flag.String("model", "", "ONNX model path (defaults to diagnosis.model.path)")
	flag.Parse()

	if *left == "" || *right == "" {
		fmt.Println("Usage: diagnose -left <image> -right <image> [-model <model.onnx>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if !config.LoadDotEnv() {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(false)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Printf("Invalid log level %q, using info", cfg.LogLevel)
	}

	mc := cfg.Diagnosis.Model
	if *model != "" {
		mc.Path = *model
	}

	session, clf, err := inference.Load(inference.SessionOptions{
		ModelPath:      mc.Path,
		RuntimeLibrary: mc.RuntimeLibrary,
		InputName:      mc.InputName,
		OutputName:     mc.OutputName,
		ImageSize:      mc.ImageSize,
		NumOutputs:     mc.NumOutputs,
	}, mc.Mean, mc.Std)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	defer session.Close()

	leftEye, err := encodeFile(*left)
	if err != nil {
		log.Fatalf("Failed to read left eye image: %v", err)
	}
	rightEye, err := encodeFile(*right)
	if err != nil {
		log.Fatalf("Failed to read right eye image: %v", err)
	}

	svc := service.New(service.Options{
		Classifier: clf,
		ModelID:    mc.Path,
		Labels:     mc.Labels,
		Logger:     logger.Named("diagnose"),
	})

	result := svc.Diagnose(context.Background(), leftEye, rightEye)

	fmt.Println("----------------------------------------")
	fmt.Printf("Model: %s\n", mc.Path)
	fmt.Printf("Left:  %s  (%s)\n", result.LeftDiagnosis, *left)
	fmt.Printf("Right: %s  (%s)\n", result.RightDiagnosis, *right)
	fmt.Println("----------------------------------------")
}

// encodeFile reads an image the way a client would send it to /predict.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
