package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JHay0112/raytracing/pkg/imagebuf"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display dimensions and average colour of rendered frames.
func InspectImages(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing image file argument")
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"File", "Format", "Size", "Aspect", "Average colour"})
	for idx := 0; idx < ctx.NArg(); idx++ {
		file := ctx.Args().Get(idx)

		format, err := imageFormat(file)
		if err != nil {
			return err
		}

		img, err := imagebuf.Load(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		avg := img.Average()
		table.Append([]string{
			file,
			format,
			fmt.Sprintf("%dx%d", img.Width(), img.Height()),
			fmt.Sprintf("%.3f", img.AspectRatio()),
			fmt.Sprintf("%.3f %.3f %.3f", avg.X, avg.Y, avg.Z),
		})
	}
	table.Render()

	logger.Noticef("image information:\n%s", buf.String())
	return nil
}

// imageFormat describes the file format, reading the header of PPM files
func imageFormat(file string) (string, error) {
	if !strings.EqualFold(filepath.Ext(file), ".ppm") {
		return strings.ToUpper(strings.TrimPrefix(filepath.Ext(file), ".")), nil
	}

	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header, err := imagebuf.ReadPPMHeader(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	return fmt.Sprintf("PPM %s (max %d)", header.Format, header.MaxValue), nil
}
