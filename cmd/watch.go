// cmd/watch.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/termrender/internal/browser/canvas"
	"github.com/xkilldash9x/termrender/internal/browser/pipeline"
	"github.com/xkilldash9x/termrender/internal/config"
	"github.com/xkilldash9x/termrender/internal/observability"
	"github.com/xkilldash9x/termrender/internal/terminal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// newWatchCmd creates the `watch` command.
func newWatchCmd() *cobra.Command {
	var cssFiles []string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Render a document and redraw it whenever it or its stylesheets change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			profile, err := terminal.ParseProfile(cfg.Terminal().ColorProfile)
			if err != nil {
				return err
			}

			out := terminal.New(cmd.OutOrStdout(), terminal.WithProfile(profile))
			w := newWatcher(cfg, args[0], cssFiles, out, observability.GetLogger())
			err = w.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&cssFiles, "css", nil, "additional stylesheet files, applied in order")
	cmd.Flags().IntP("width", "w", 0, "viewport width in columns (overrides config/env)")
	cmd.Flags().Int("height", 0, "canvas height in rows, 0 sizes to the document (overrides config/env)")
	cmd.Flags().Bool("full", false, "redraw every cell on each frame instead of diffing")
	cmd.Flags().Bool("title-bar", false, "draw the document title in the first row")
	cmd.Flags().String("profile", "", "color profile: truecolor, ansi256, ansi or ascii (overrides config/env)")
	cmd.Flags().Duration("debounce", 0, "quiet period after a change before redrawing (overrides config/env)")
	cmd.Flags().Float64("max-fps", 0, "upper bound on redraws per second (overrides config/env)")

	return cmd
}

// frameSink receives rendered cells and pushes them to the terminal.
type frameSink interface {
	canvas.CellWriter
	Clear()
	HideCursor()
	ShowCursor()
	Flush() error
}

// watcher redraws a document whenever one of its source files changes.
// Redraws are serialized on the Run goroutine, debounced and rate limited.
type watcher struct {
	renderer *pipeline.Renderer
	cfg      config.RenderConfig
	debounce time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger

	document string
	sheets   []string
	out      frameSink
	canvas   *canvas.Canvas

	// onFrame, if set, is called after every frame.
	onFrame func(pipeline.FrameStats)
}

func newWatcher(cfg config.Interface, document string, sheets []string, out frameSink, logger *zap.Logger) *watcher {
	watchCfg := cfg.Watch()
	return &watcher{
		renderer: pipeline.NewRenderer(cfg.Render(), pipeline.WithLogger(logger)),
		cfg:      cfg.Render(),
		debounce: watchCfg.Debounce,
		limiter:  rate.NewLimiter(rate.Limit(watchCfg.MaxFPS), 1),
		logger:   logger.Named("watch"),
		document: document,
		sheets:   sheets,
		out:      out,
	}
}

// Run draws the first frame and then redraws on change until ctx is done.
func (w *watcher) Run(ctx context.Context) error {
	if w.document == "" || w.document == "-" {
		return errors.New("watch needs a document file, stdin cannot be watched")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Watching directories survives editors that replace files on save.
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range append([]string{w.document}, w.sheets...) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.out.Clear()
	w.out.HideCursor()
	defer func() {
		w.out.ShowCursor()
		if err := w.out.Flush(); err != nil {
			w.logger.Warn("Failed to restore cursor.", zap.Error(err))
		}
	}()

	w.redraw(ctx)

	var debounce *time.Timer
	var pending <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Source changed.", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if debounce == nil {
				debounce = time.NewTimer(w.debounce)
			} else {
				debounce.Reset(w.debounce)
			}
			pending = debounce.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error.", zap.Error(err))

		case <-pending:
			pending = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return ctx.Err()
			}
			w.redraw(ctx)
		}
	}
}

// redraw reloads the sources and renders one frame. Load errors are logged
// and the previous frame stays on screen, since a file may be caught
// mid-write.
func (w *watcher) redraw(ctx context.Context) {
	doc, err := loadDocument(w.document, nil)
	if err != nil {
		w.logger.Warn("Failed to load document.", zap.Error(err))
		return
	}
	sheets, err := loadStyleSheets(ctx, w.sheets)
	if err != nil {
		w.logger.Warn("Failed to load stylesheets.", zap.Error(err))
		return
	}

	page := w.renderer.Layout(doc, sheets, w.cfg.Width)
	height := w.cfg.Height
	if height == 0 {
		height = page.Height()
	}

	full := w.cfg.FullRedraw
	switch {
	case w.canvas == nil:
		w.canvas = canvas.New(w.cfg.Width, height)
	case w.canvas.Height() != height:
		// The terminal still shows rows the new canvas no longer covers.
		w.canvas.Resize(w.cfg.Width, height)
		w.out.Clear()
		full = true
	}

	stats := w.renderer.Present(page, w.canvas, w.out, full)
	if err := w.out.Flush(); err != nil {
		w.logger.Warn("Failed to write frame.", zap.Error(err))
	}
	if w.onFrame != nil {
		w.onFrame(stats)
	}
}

var _ frameSink = (*terminal.Output)(nil)
