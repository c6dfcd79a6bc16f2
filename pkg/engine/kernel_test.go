package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: 2x1 RGB image, invert, synchronous path.
func TestInvertSyncScenarioS1(t *testing.T) {
	e, err := New(0, 2)
	require.NoError(t, err)
	defer e.Destroy()

	in := ImageView{Pixels: []byte{10, 20, 30, 200, 100, 50}, Width: 2, Height: 1, Channels: 3}
	out := ImageView{Pixels: make([]byte, 6), Width: 2, Height: 1, Channels: 3}

	require.NoError(t, e.Invert(in, out))
	assert.Equal(t, []byte{245, 235, 225, 55, 155, 205}, out.Pixels)
}

// S2: 1x1 RGB grayscale.
func TestGrayscaleScenarioS2(t *testing.T) {
	in := ImageView{Pixels: []byte{100, 150, 200}, Width: 1, Height: 1, Channels: 3}
	out := ImageView{Pixels: make([]byte, 3), Width: 1, Height: 1, Channels: 3}

	grayscaleKernel(in.Pixels, out.Pixels, 1, 1, 3)
	assert.Equal(t, []byte{140, 140, 140}, out.Pixels)
}

// S3: 1x1 RGB white, sepia clamps to 255.
func TestSepiaScenarioS3(t *testing.T) {
	in := ImageView{Pixels: []byte{255, 255, 255}, Width: 1, Height: 1, Channels: 3}
	out := ImageView{Pixels: make([]byte, 3), Width: 1, Height: 1, Channels: 3}

	sepiaKernel(in.Pixels, out.Pixels, 1, 1, 3)
	assert.Equal(t, []byte{255, 255, 255}, out.Pixels)
}

// S4: 1x1 RGB sepia, no clamping.
func TestSepiaScenarioS4(t *testing.T) {
	in := ImageView{Pixels: []byte{100, 50, 25}, Width: 1, Height: 1, Channels: 3}
	out := ImageView{Pixels: make([]byte, 3), Width: 1, Height: 1, Channels: 3}

	sepiaKernel(in.Pixels, out.Pixels, 1, 1, 3)
	assert.Equal(t, []byte{82, 73, 57}, out.Pixels)
}

// Double invert is identity (testable property 3).
func TestDoubleInvertIsIdentity(t *testing.T) {
	original := []byte{0, 128, 255, 17, 200, 9, 64, 64, 64}
	buf1 := make([]byte, len(original))
	buf2 := make([]byte, len(original))

	invertKernel(original, buf1, 3, 1, 3)
	invertKernel(buf1, buf2, 3, 1, 3)
	assert.Equal(t, original, buf2)
}

// Grayscale idempotence on gray images (testable property 4).
func TestGrayscaleIdempotentOnGrayImage(t *testing.T) {
	gray := []byte{10, 10, 10, 200, 200, 200, 77, 77, 77}
	out := make([]byte, len(gray))
	grayscaleKernel(gray, out, 3, 1, 3)
	assert.Equal(t, gray, out)
}

// Channel invariance: alpha passes through for every kernel (testable property 5).
func TestAlphaPassesThroughAllKernels(t *testing.T) {
	in := []byte{10, 20, 30, 42, 200, 100, 50, 7}
	kernels := []kernelFunc{invertKernel, grayscaleKernel, sepiaKernel}
	for _, k := range kernels {
		out := make([]byte, len(in))
		k(in, out, 2, 1, 4)
		assert.Equal(t, byte(42), out[3])
		assert.Equal(t, byte(7), out[7])
	}
}

func TestKernelForReservedKindsUnsupported(t *testing.T) {
	for _, k := range []Kind{BoxBlur, GaussianBlur, Edge, ScaleUp, ScaleDown} {
		_, ok := kernelFor(k)
		assert.False(t, ok, "%s should be unsupported", k)
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("sepia")
	require.True(t, ok)
	assert.Equal(t, Sepia, k)

	_, ok = ParseKind("does-not-exist")
	assert.False(t, ok)
}
