// cmd/render.go
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/termrender/internal/browser/canvas"
	"github.com/xkilldash9x/termrender/internal/browser/layout"
	"github.com/xkilldash9x/termrender/internal/browser/pipeline"
	"github.com/xkilldash9x/termrender/internal/config"
	"github.com/xkilldash9x/termrender/internal/observability"
	"github.com/xkilldash9x/termrender/internal/terminal"
	"go.uber.org/zap"
)

type renderOptions struct {
	cssFiles []string
	dump     string
	plain    bool
}

// newRenderCmd creates the `render` command.
func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an HTML document once",
		Long: `Render lays out an HTML document at the configured width and draws it.
The document is read from stdin when no file or "-" is given. Stylesheets
passed with --css apply after the document's own style elements.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runRender(cmd, cfg, path, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.cssFiles, "css", nil, "additional stylesheet files, applied in order")
	cmd.Flags().StringVar(&opts.dump, "dump", "", "print the layout tree instead of drawing it (tree or json)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print the grid as plain text without escape sequences")
	cmd.Flags().IntP("width", "w", 0, "viewport width in columns (overrides config/env)")
	cmd.Flags().Int("height", 0, "canvas height in rows, 0 sizes to the document (overrides config/env)")
	cmd.Flags().Int("max-depth", 0, "maximum layout tree depth (overrides config/env)")
	cmd.Flags().Bool("title-bar", false, "draw the document title in the first row")
	cmd.Flags().String("profile", "", "color profile: truecolor, ansi256, ansi or ascii (overrides config/env)")

	return cmd
}

func runRender(cmd *cobra.Command, cfg config.Interface, path string, opts renderOptions) error {
	ctx := cmd.Context()
	logger := observability.GetLogger().Named("render")
	renderCfg := cfg.Render()

	doc, err := loadDocument(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	sheets, err := loadStyleSheets(ctx, opts.cssFiles)
	if err != nil {
		return err
	}

	r := pipeline.NewRenderer(renderCfg, pipeline.WithLogger(observability.GetLogger()))
	page := r.Layout(doc, sheets, renderCfg.Width)
	logger.Debug("Document laid out.",
		zap.String("source", sourceName(path)),
		zap.Int("stylesheets", len(sheets)),
		zap.Int("width", renderCfg.Width),
		zap.Int("height", page.Height()),
	)

	if opts.dump != "" {
		return dumpLayout(cmd.OutOrStdout(), page.Layout.Root, opts.dump)
	}

	height := renderCfg.Height
	if height == 0 {
		height = page.Height()
	}
	c := canvas.New(renderCfg.Width, height)

	if opts.plain {
		r.Present(page, c, nil, true)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), c.String())
		return err
	}

	profile, err := terminal.ParseProfile(cfg.Terminal().ColorProfile)
	if err != nil {
		return err
	}
	out := terminal.New(cmd.OutOrStdout(), terminal.WithProfile(profile))
	out.Clear()
	stats := r.Present(page, c, out, true)
	// Leave the cursor on the line below the frame.
	out.Write(fmt.Sprintf(termenv.CSI+termenv.CursorPositionSeq+"\n", max(height, 1), 1))
	if err := out.Flush(); err != nil {
		return err
	}

	logger.Debug("Document rendered.", zap.String("frame_id", stats.ID), zap.Int("cells", stats.Changed))
	return nil
}

func dumpLayout(w io.Writer, root *layout.LayoutBox, format string) error {
	switch strings.ToLower(format) {
	case "tree":
		_, err := io.WriteString(w, layout.Dump(root))
		return err
	case "json":
		data, err := layout.ExportJSON(root)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return fmt.Errorf("unknown dump format %q, expected tree or json", format)
}

func sourceName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
