package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCapture(dir string) *ScreenshotCapture {
	sc := NewScreenshotCapture(dir, "shot")
	sc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }
	return sc
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := fixedCapture(dir)

	// 1x2: bottom row red, top row blue in GL order
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shot_2026-03-01_12-30-00.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b, "top of the image is the last GL row")
	r, _, _, _ = img.At(0, 1).RGBA()
	assert.NotZero(t, r)
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := fixedCapture(t.TempDir())
	_, err := sc.CaptureFromPixels(make([]byte, 7), 1, 2)
	assert.Error(t, err)
	_, err = sc.CaptureFromPixels(nil, 0, 0)
	assert.Error(t, err)
}

func TestFilenamesDoNotCollide(t *testing.T) {
	sc := fixedCapture("")
	a := sc.GenerateFilename()
	b := sc.GenerateFilename()
	assert.Equal(t, "shot_2026-03-01_12-30-00.png", a)
	assert.Equal(t, "shot_2026-03-01_12-30-00_1.png", b)
}
