package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/JHay0112/raytracing/pkg/imagebuf"
	"github.com/JHay0112/raytracing/pkg/integrator"
	"github.com/JHay0112/raytracing/pkg/loaders"
	"github.com/JHay0112/raytracing/pkg/publish"
	"github.com/JHay0112/raytracing/pkg/renderer"
	"github.com/JHay0112/raytracing/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	if err := applyOverrides(ctx, sc); err != nil {
		return err
	}

	in, ok := integrator.ByName(ctx.String("integrator"))
	if !ok {
		return fmt.Errorf("unknown integrator %q", ctx.String("integrator"))
	}

	rt := sc.NewRaytracer()
	rt.SetIntegrator(in)

	img := imagebuf.NewWithSize(sc.Width, sc.Height())

	// Stop rendering on Ctrl+C
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := rt.Render(renderCtx, img)
	if err != nil {
		return err
	}

	// Display stats
	displayRenderStats(stats)

	out := ctx.String("out")
	if err := img.Save(out); err != nil {
		return err
	}
	logger.Noticef("frame written to %s", out)
	files := []string{out}

	if maxWidth := ctx.Int("thumbnail"); maxWidth > 0 {
		thumbFile := thumbnailFilename(out)
		thumb := imagebuf.FromImage(img.Thumbnail(maxWidth))
		if err := thumb.Save(thumbFile); err != nil {
			return err
		}
		logger.Noticef("thumbnail written to %s (%dx%d)", thumbFile, thumb.Width(), thumb.Height())
		files = append(files, thumbFile)
	}

	if ctx.Bool("upload") {
		return uploadFiles(ctx, files)
	}

	return nil
}

// loadScene resolves the scene from a JSON file argument or the --scene id
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() > 1 {
		return nil, errors.New("expected at most one scene file argument")
	}

	if sceneFile := ctx.Args().First(); sceneFile != "" {
		if !strings.EqualFold(filepath.Ext(sceneFile), ".json") {
			return nil, fmt.Errorf("unsupported scene file %s", sceneFile)
		}
		return loaders.LoadSceneFile(sceneFile)
	}

	return loaders.Resolve(ctx.String("scene"), ctx.String("scene-dir"))
}

// applyOverrides replaces scene presets with the flags set on the command line or environment
func applyOverrides(ctx *cli.Context, sc *scene.Scene) error {
	if ctx.IsSet("width") {
		sc.Width = ctx.Int("width")
	}
	if ctx.IsSet("spp") {
		sc.SamplingConfig.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		sc.SamplingConfig.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("workers") {
		sc.SamplingConfig.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		sc.SamplingConfig.Seed = ctx.Int64("seed")
	}

	if sc.Width < 1 || sc.Height() < 1 {
		return fmt.Errorf("frame %dx%d: %w", sc.Width, sc.Height(), renderer.ErrInvalidConfig)
	}
	return sc.SamplingConfig.Validate()
}

// thumbnailFilename returns frame.ppm -> frame_thumb.png
func thumbnailFilename(out string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + "_thumb.png"
}

func uploadFiles(ctx *cli.Context, files []string) error {
	publisher, err := publish.New(publishConfig(ctx))
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		url, err := publisher.Upload(context.Background(), filepath.Base(file), data)
		if err != nil {
			return err
		}
		logger.Noticef("published %s", url)
	}
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "% of frame", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.ID),
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d spp", stats.SamplesPerPixel),
		"TOTAL",
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics (%.0f samples/s)\n%s", stats.SamplesPerSecond(), buf.String())
}
