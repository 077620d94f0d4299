package main

import (
	"fmt"
	"os"

	"github.com/JHay0112/raytracing/cmd"
	"github.com/urfave/cli"
)

func main() {
	if err := cmd.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load environment file: %v\n", err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneDirFlag := cli.StringFlag{
		Name:   "scene-dir",
		Value:  "scenes",
		Usage:  "directory holding JSON scene files",
		EnvVar: "RT_SCENE_DIR",
	}
	workersFlag := cli.IntFlag{
		Name:   "workers",
		Value:  1,
		Usage:  "number of parallel row workers",
		EnvVar: "RT_WORKERS",
	}

	app := cli.NewApp()
	app.Name = "raytracing"
	app.Usage = "render scenes of spheres and triangles with a recursive path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "RT_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene (--scene) or a JSON scene file given as argument. Width
and sampling settings default to the scene presets. The frame is written as PNG
when the output name ends in .png and as plain PPM otherwise.`,
			ArgsUsage: "[scene.json]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "scene, s",
					Value:  "default",
					Usage:  "scene id; use file:<name> for scene files in the scene directory",
					EnvVar: "RT_SCENE",
				},
				sceneDirFlag,
				cli.IntFlag{
					Name:   "width",
					Usage:  "frame width, the height follows the camera aspect ratio",
					EnvVar: "RT_WIDTH",
				},
				cli.IntFlag{
					Name:   "spp",
					Usage:  "samples per pixel",
					EnvVar: "RT_SPP",
				},
				cli.IntFlag{
					Name:   "depth",
					Usage:  "maximum ray bounce depth",
					EnvVar: "RT_DEPTH",
				},
				workersFlag,
				cli.Int64Flag{
					Name:   "seed",
					Usage:  "base random seed",
					EnvVar: "RT_SEED",
				},
				cli.StringFlag{
					Name:  "integrator",
					Value: "path",
					Usage: "light transport: path or normal",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "frame.ppm",
					Usage:  "image filename for the rendered frame",
					EnvVar: "RT_OUT",
				},
				cli.IntFlag{
					Name:  "thumbnail",
					Usage: "also write a PNG thumbnail at most this wide",
				},
				cli.BoolFlag{
					Name:  "upload",
					Usage: "upload the frame and thumbnail to S3",
				},
				cli.StringFlag{
					Name:   "s3-bucket",
					EnvVar: "S3_BUCKET",
				},
				cli.StringFlag{
					Name:   "s3-region",
					EnvVar: "S3_REGION",
				},
				cli.StringFlag{
					Name:   "s3-endpoint",
					Usage:  "endpoint of an S3 compatible store",
					EnvVar: "S3_ENDPOINT",
				},
				cli.StringFlag{
					Name:   "s3-access-key",
					EnvVar: "S3_ACCESS_KEY",
				},
				cli.StringFlag{
					Name:   "s3-secret-key",
					EnvVar: "S3_SECRET_KEY",
				},
				cli.StringFlag{
					Name:   "s3-prefix",
					Value:  "renders",
					EnvVar: "S3_PREFIX",
				},
				cli.StringFlag{
					Name:   "s3-public-url",
					Usage:  "base URL the uploaded frames are served from",
					EnvVar: "S3_PUBLIC_URL",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes and scene files",
			Flags:  []cli.Flag{sceneDirFlag},
			Action: cmd.ListScenes,
		},
		{
			Name:      "inspect",
			Usage:     "display size and average colour of rendered frames",
			ArgsUsage: "frame1.ppm frame2.png ...",
			Action:    cmd.InspectImages,
		},
		{
			Name:  "serve",
			Usage: "serve renders over HTTP",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "port",
					Value:  8080,
					Usage:  "port to serve on",
					EnvVar: "RT_PORT",
				},
				sceneDirFlag,
				workersFlag,
			},
			Action: cmd.Serve,
		},
	}

	return app
}
