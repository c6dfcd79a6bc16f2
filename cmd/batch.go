package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MBatuhanOzer/filter/pkg/cache"
	"github.com/MBatuhanOzer/filter/pkg/concurrent"
	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/imageio"
	"github.com/MBatuhanOzer/filter/pkg/logger"
)

var (
	batchFilter  string
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir>",
	Short: "Apply a filter to every image in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inDir := args[0]

		kind, ok := engine.ParseKind(batchFilter)
		if !ok {
			return fmt.Errorf("unsupported filter kind %q", batchFilter)
		}
		if batchOutDir == "" {
			return fmt.Errorf("--out is required")
		}

		entries, err := os.ReadDir(inDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return err
		}

		e, err := engine.New(cfg.ArenaSize, cfg.Threads)
		if err != nil {
			return err
		}
		defer e.Destroy()

		resultCache := cache.New(cfg.CacheDir, cfg.CacheTTL)

		var tasks []concurrent.Task
		for _, entry := range entries {
			if entry.IsDir() || !isImageFile(entry.Name()) {
				continue
			}
			tasks = append(tasks, fileTask{
				engine: e,
				cache:  resultCache,
				kind:   kind,
				in:     filepath.Join(inDir, entry.Name()),
				out:    filepath.Join(batchOutDir, entry.Name()),
			})
		}

		if len(tasks) == 0 {
			logger.Warnf("no image files found in %s", inDir)
			return nil
		}

		results := concurrent.RunBatch(tasks, batchWorkers)
		var failures int
		for _, r := range results {
			if r.Error != nil {
				failures++
				logger.Errorf("%s: %v", r.TaskID, r.Error)
			}
		}
		logger.Infof("batch complete: %d/%d succeeded", len(tasks)-failures, len(tasks))
		if failures > 0 {
			return fmt.Errorf("%d of %d files failed", failures, len(tasks))
		}
		return nil
	},
}

// fileTask filters one file through the shared engine; it is the unit of
// work handed to pkg/concurrent's WorkerPool. It consults the result
// cache before submitting to the engine and populates it afterward.
type fileTask struct {
	engine *engine.Engine
	cache  *cache.Cache
	kind   engine.Kind
	in     string
	out    string
}

func (t fileTask) ID() string { return t.in }

func (t fileTask) Process(ctx context.Context) error {
	raw, err := os.ReadFile(t.in)
	if err != nil {
		return err
	}
	key := cache.Key(raw, t.kind.String())

	if cached, hit := t.cache.Get(key); hit {
		return imageio.Save(t.out, cached)
	}

	in, err := imageio.Decode(bytes.NewReader(raw), t.in)
	if err != nil {
		return err
	}
	out := imageio.Blank(in)
	if err := applyKind(t.engine, t.kind, in, out); err != nil {
		return err
	}
	t.engine.Wait()
	if err := t.cache.Put(key, t.kind.String(), out); err != nil {
		logger.Warnf("failed to populate cache for %s: %v", t.in, err)
	}
	return imageio.Save(t.out, out)
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return true
	default:
		return false
	}
}

func init() {
	batchCmd.Flags().StringVar(&batchFilter, "filter", "", "filter kind: invert, grayscale, or sepia (required)")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "", "output directory (required)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of concurrent file-level workers")
	batchCmd.MarkFlagRequired("filter")
	batchCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(batchCmd)
}
