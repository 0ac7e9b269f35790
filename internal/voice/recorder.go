package voice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/thucvanminh/mywallet/internal/common"
)

// Recorder abstracts the audio capture capability. Start acquires the
// capability (failing with common.ErrPermissionDenied when it is not
// granted) and Stop returns the fully captured clip.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) ([]byte, error)
}

// FileRecorder is a Recorder backed by a pre-recorded audio file, used by the
// CLI where there is no live microphone session.
type FileRecorder struct {
	Path string
}

// Start verifies the clip is readable. Filesystem permission errors map onto
// the same user-visible outcome as a denied microphone.
func (r *FileRecorder) Start(_ context.Context) error {
	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", common.ErrPermissionDenied, r.Path)
		}
		return fmt.Errorf("failed to open audio clip: %w", err)
	}
	return f.Close()
}

// Stop reads the whole clip back.
func (r *FileRecorder) Stop(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", common.ErrPermissionDenied, r.Path)
		}
		return nil, fmt.Errorf("failed to read audio clip: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("audio clip %s is empty", r.Path)
	}
	return data, nil
}
