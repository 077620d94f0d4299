package cmd

import (
	"bytes"

	"github.com/JHay0112/raytracing/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List built-in scenes and the scene files found in the scene directory.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	response, err := scene.ListAllScenes(ctx.String("scene-dir"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Group", "ID", "Name", "Description"})
	count := 0
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			table.Append([]string{group.Name, info.ID, info.Name, info.Description})
			count++
		}
	}
	table.Render()

	logger.Noticef("%d scene(s) available\n%s", count, buf.String())
	return nil
}
