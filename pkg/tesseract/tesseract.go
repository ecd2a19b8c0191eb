// Package tesseract adapts gosseract to the agent's OCR engine interface.
// Building it requires libtesseract and leptonica.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

type Config struct {
	Languages string `split_words:"true" default:"eng"`
	TessData  string `envconfig:"TESSDATA" split_words:"true"`
}

type Engine struct {
	languages []string
	tessData  string
}

func New(cfg Config) *Engine {
	var langs []string
	for _, l := range strings.Split(cfg.Languages, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return &Engine{
		languages: langs,
		tessData:  strings.TrimSpace(cfg.TessData),
	}
}

type extractResult struct {
	text string
	err  error
}

// Extract runs recognition on a fresh client. The cgo call cannot be
// interrupted, so on ctx expiry the result is abandoned.
func (e *Engine) Extract(ctx context.Context, imagePath string) (string, error) {
	done := make(chan extractResult, 1)
	go func() {
		text, err := e.extract(imagePath)
		done <- extractResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *Engine) extract(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if e.tessData != "" {
		if err := client.SetTessdataPrefix(e.tessData); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
