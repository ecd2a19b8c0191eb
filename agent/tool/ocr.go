package tool

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	contractx "github.com/tanpawarit/memagent/agent/contract"
)

// OCRFailedPrefix starts every OCR failure output.
const OCRFailedPrefix = "OCR failed: "

// OCREngine recognizes text in an image file.
type OCREngine interface {
	Extract(ctx context.Context, imagePath string) (string, error)
}

var errNoOCREngine = errors.New("no OCR engine configured")

// ExtractText runs engine on imagePath and reports every failure as text.
func ExtractText(ctx context.Context, engine OCREngine, imagePath string, timeout time.Duration) (string, bool) {
	text, err := extractText(ctx, engine, imagePath, timeout)
	if err != nil {
		return OCRFailedPrefix + err.Error(), false
	}
	return text, true
}

func extractText(ctx context.Context, engine OCREngine, imagePath string, timeout time.Duration) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: engine panic: %v", contractx.ErrToolExecution, r)
		}
	}()

	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return "", errors.New("image path is empty")
	}
	if engine == nil {
		return "", errNoOCREngine
	}
	if err := checkImage(imagePath); err != nil {
		return "", err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err = engine.Extract(ctx, imagePath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// checkImage fails early for missing files and formats no decoder knows.
func checkImage(imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file not found: %s", imagePath)
		}
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", imagePath)
	}

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("unreadable image %s: %w", imagePath, err)
	}
	return nil
}
