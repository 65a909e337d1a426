package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"github.com/google/uuid"
)

// Clipboard holds a single image, replacing the previous one on every write.
type Clipboard interface {
	WriteImage(ctx context.Context, img image.Image) error
}

// LocationChooser asks the user where to save an image. ok is false when the
// user cancelled.
type LocationChooser interface {
	Choose(ctx context.Context, dir string) (path string, ok bool, err error)
}

// Alerter shows a readable error to the user.
type Alerter interface {
	Alert(err *errorz.ReadableError)
}

// DirectoryResolver returns the default save directory.
type DirectoryResolver func() (string, error)

type executor interface {
	Go(fn func())
}

const (
	clipboardTimeout = 5 * time.Second
	chooserTimeout   = 5 * time.Minute
)

type ImageSaver struct {
	clipboard  Clipboard
	chooser    LocationChooser
	alerter    Alerter
	resolveDir DirectoryResolver
	disk       executor
	logger     *types.Logger

	saved func(path string)
}

func NewImageSaver(
	clipboard Clipboard,
	chooser LocationChooser,
	alerter Alerter,
	resolveDir DirectoryResolver,
	disk executor,
	logger *types.Logger,
) *ImageSaver {
	return &ImageSaver{
		clipboard:  clipboard,
		chooser:    chooser,
		alerter:    alerter,
		resolveDir: resolveDir,
		disk:       disk,
		logger:     logger,
	}
}

// OnSaved registers fn to be called on the disk worker with the path of every written file.
func (s *ImageSaver) OnSaved(fn func(path string)) {
	s.saved = fn
}

// Copy replaces the clipboard contents with img. Failures are only logged.
func (s *ImageSaver) Copy(img image.Image) {
	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	if err := s.clipboard.WriteImage(ctx, img); err != nil {
		s.logger.Errorf("failed to write image to clipboard: %v", err)
		return
	}
	s.logger.Debugf("image %s copied to clipboard", img.Bounds().Size())
}

// Save resolves the default directory and, on the disk worker, asks for a
// location and writes img there as PNG. A missing directory is alerted and
// returned immediately without showing the chooser; later failures are
// alerted from the worker.
func (s *ImageSaver) Save(img image.Image) error {
	dir, err := s.resolveDir()
	if err == nil && dir == "" {
		err = errors.New("empty directory")
	}
	if err != nil {
		s.logger.Errorf("failed to resolve save directory: %v", err)
		s.alerter.Alert(errorz.SaveDirectoryUnavailable)
		return errorz.SaveDirectoryUnavailable
	}

	s.disk.Go(func() {
		s.saveTo(dir, img)
	})
	return nil
}

func (s *ImageSaver) saveTo(dir string, img image.Image) {
	ctx, cancel := context.WithTimeout(context.Background(), chooserTimeout)
	defer cancel()

	path, ok, err := s.chooser.Choose(ctx, dir)
	if err != nil {
		s.logger.Errorf("location chooser failed: %v", err)
		s.alerter.Alert(errorz.SaveLocationNotFound)
		return
	}
	if !ok {
		s.logger.Debug("save cancelled by user")
		return
	}
	if strings.TrimSpace(path) == "" {
		s.alerter.Alert(errorz.SaveLocationNotFound)
		return
	}

	path = normalizePath(dir, path)
	if err = writePNG(path, img); err != nil {
		s.logger.Errorf("failed to save image: %v", err)
		s.alerter.Alert(errorz.SaveWriteFailed)
		return
	}
	s.logger.Infof("image saved to %s", path)
	if s.saved != nil {
		s.saved(path)
	}
}

func normalizePath(dir, path string) string {
	path = strings.TrimSpace(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	return path
}

// writePNG encodes img to a PNG file at the given path.
func writePNG(output string, img image.Image) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	if err = png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode PNG: %w", err)
	}
	return f.Close()
}

// DefaultFileName returns a unique file name for an exported code.
func DefaultFileName() string {
	return fmt.Sprintf("qr-%s.png", uuid.New().String()[:8])
}

// DocumentsDirectory resolves configured (created when missing) or, when
// empty, the Documents folder in the user's home directory.
func DocumentsDirectory(configured string) DirectoryResolver {
	return func() (string, error) {
		if configured != "" {
			if err := os.MkdirAll(configured, os.ModePerm); err != nil {
				return "", fmt.Errorf("failed to create output directory: %v", err)
			}
			return configured, nil
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir := filepath.Join(home, "Documents")
		info, err := os.Stat(dir)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", dir)
		}
		return dir, nil
	}
}

// FixedLocation is a chooser that always picks path.
type FixedLocation string

func (f FixedLocation) Choose(context.Context, string) (string, bool, error) {
	return string(f), true, nil
}
