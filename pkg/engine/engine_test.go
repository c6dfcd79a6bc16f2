package engine

import (
	"fmt"
	"sync"
	"testing"

	apperrors "github.com/MBatuhanOzer/filter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeImage(width, height, channels int, fill func(i int) byte) ImageView {
	pixels := make([]byte, width*height*channels)
	for i := range pixels {
		pixels[i] = fill(i)
	}
	return ImageView{Pixels: pixels, Width: width, Height: height, Channels: channels}
}

func referenceInvert(in ImageView) []byte {
	out := make([]byte, len(in.Pixels))
	invertKernel(in.Pixels, out, in.Width, in.Height, in.Channels)
	return out
}

// S5: 201x8 RGB image, invert, 4 items with row spans {50,50,50,51};
// output equals the single-threaded reference (testable properties 1, 2).
func TestInvertScenarioS5Partition(t *testing.T) {
	in := makeImage(8, 201, 3, func(i int) byte { return byte(i) })
	out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}

	items, err := buildItems(in, out, Invert)
	require.NoError(t, err)
	require.Len(t, items, 4)

	var total int
	rows := make([]int, len(items))
	for i, item := range items {
		rows[i] = item.rows
		total += item.rows
	}
	assert.Equal(t, []int{50, 50, 50, 51}, rows)
	assert.Equal(t, in.Height, total)

	e, err := New(0, 4)
	require.NoError(t, err)
	defer e.Destroy()

	require.NoError(t, e.Invert(in, out))
	e.Wait()
	assert.Equal(t, referenceInvert(in), out.Pixels)
}

// Partition completeness (testable property 1): for any height, item row
// ranges cover [0,H) exactly once, for both the count==1 and count>1 paths.
func TestPartitionCompleteness(t *testing.T) {
	for _, height := range []int{1, 30, 50, 51, 100, 101, 150, 500, 2000} {
		in := makeImage(4, height, 3, func(i int) byte { return byte(i) })
		out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}

		items, err := buildItems(in, out, Grayscale)
		require.NoError(t, err)

		rowsSeen := 0
		for _, item := range items {
			require.GreaterOrEqual(t, item.rows, 1)
			rowsSeen += item.rows
		}
		assert.Equal(t, height, rowsSeen, "height=%d", height)
	}
}

// Kernel equivalence (testable property 2): engine output equals a
// single-threaded reference for every supported kind, across sync and
// async image sizes.
func TestKernelEquivalenceAcrossSizes(t *testing.T) {
	e, err := New(0, 4)
	require.NoError(t, err)
	defer e.Destroy()

	for _, height := range []int{1, 50, 100, 101, 201, 1000} {
		for _, kind := range []Kind{Invert, Grayscale, Sepia} {
			in := makeImage(6, height, 3, func(i int) byte { return byte((i * 37) % 256) })
			out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}
			ref := make([]byte, len(in.Pixels))

			kernel, _ := kernelFor(kind)
			kernel(in.Pixels, ref, in.Width, in.Height, in.Channels)

			require.NoError(t, e.submitFilter(in, out, kind))
			e.Wait()
			assert.Equal(t, ref, out.Pixels, "kind=%s height=%d", kind, height)
		}
	}
}

func TestShapeMismatchErrors(t *testing.T) {
	e, err := New(0, 2)
	require.NoError(t, err)
	defer e.Destroy()

	in := ImageView{Pixels: make([]byte, 12), Width: 4, Height: 1, Channels: 3}
	out := ImageView{Pixels: make([]byte, 8), Width: 4, Height: 1, Channels: 2}

	err = e.Invert(in, out)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ShapeMismatchError))
}

func TestUnsupportedKindErrors(t *testing.T) {
	e, err := New(0, 2)
	require.NoError(t, err)
	defer e.Destroy()

	in := ImageView{Pixels: make([]byte, 300*4*3), Width: 4, Height: 300, Channels: 3}
	out := ImageView{Pixels: make([]byte, 300*4*3), Width: 4, Height: 300, Channels: 3}

	err = e.submitFilter(in, out, BoxBlur)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.UnsupportedKindError))
}

// Completion barrier (testable property 6): after Wait returns, the queue
// is empty, and a second Wait is a no-op.
func TestCompletionBarrier(t *testing.T) {
	e, err := New(0, 2)
	require.NoError(t, err)
	defer e.Destroy()

	in := makeImage(8, 500, 3, func(i int) byte { return byte(i) })
	out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}

	require.NoError(t, e.Invert(in, out))
	e.Wait()
	assert.False(t, e.controller.queueNonEmpty())
	e.Wait() // no-op, must not block
}

// S6: 10 grayscale jobs on a 2-worker engine with arena_size=64, one Wait
// at the end — all outputs match the reference and the arena free list
// returns to full size (testable property 8: arena conservation).
func TestScenarioS6BatchAndArenaConservation(t *testing.T) {
	e, err := New(64, 2)
	require.NoError(t, err)
	defer e.Destroy()

	const jobs = 10
	ins := make([]ImageView, jobs)
	outs := make([]ImageView, jobs)
	refs := make([][]byte, jobs)

	for i := 0; i < jobs; i++ {
		in := makeImage(5, 300, 3, func(px int) byte { return byte((px + i) % 256) })
		out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}
		ref := make([]byte, len(in.Pixels))
		grayscaleKernel(in.Pixels, ref, in.Width, in.Height, in.Channels)

		ins[i], outs[i], refs[i] = in, out, ref
		require.NoError(t, e.Grayscale(in, out))
	}

	e.Wait()

	for i := 0; i < jobs; i++ {
		assert.Equal(t, refs[i], outs[i].Pixels, "job %d", i)
	}
	assert.Equal(t, 64, e.controller.arenaFreeCount())
}

// No data race under K concurrent client goroutines (testable property 7):
// each submission's output equals its own single-threaded reference.
func TestConcurrentSubmittersNoDataRace(t *testing.T) {
	e, err := New(0, 4)
	require.NoError(t, err)
	defer e.Destroy()

	const k = 16
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func(i int) {
			defer wg.Done()
			in := makeImage(7, 400, 3, func(px int) byte { return byte((px + i*13) % 256) })
			out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}
			ref := make([]byte, len(in.Pixels))
			sepiaKernel(in.Pixels, ref, in.Width, in.Height, in.Channels)

			require.NoError(t, e.Sepia(in, out))
			e.Wait()
			assert.Equal(t, ref, out.Pixels, "submitter %d", i)
		}(i)
	}
	wg.Wait()
}

// Shutdown joins all workers (testable property 9), and submissions after
// Destroy begins are rejected with ErrShutdown.
func TestDestroyJoinsWorkersAndRejectsLateSubmissions(t *testing.T) {
	e, err := New(0, 3)
	require.NoError(t, err)

	e.Destroy()

	in := makeImage(4, 300, 3, func(i int) byte { return byte(i) })
	out := ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}

	err = e.Invert(in, out)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ShutdownError))
}

func TestStatsSnapshot(t *testing.T) {
	e, err := New(8, 2)
	require.NoError(t, err)
	defer e.Destroy()

	s := e.Stats()
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, 8, s.ArenaSize)
	assert.Equal(t, 8, s.ArenaFree)
	assert.False(t, s.QueueBusy)
}

func ExampleKind_String() {
	fmt.Println(Sepia)
	// Output: sepia
}
