package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/JHay0112/raytracing/pkg/publish"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// DefaultEnvFile is read when RT_ENV_FILE is not set
const DefaultEnvFile = ".env"

// LoadEnv loads KEY=VALUE pairs from the env file into the process environment so they
// feed the flag env bindings. Variables already set are left alone. A missing default
// file is not an error; a missing file named by RT_ENV_FILE is.
func LoadEnv() error {
	path, explicit := os.LookupEnv("RT_ENV_FILE")
	if !explicit || path == "" {
		path = DefaultEnvFile
		explicit = false
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// publishConfig collects the S3 settings from the command flags
func publishConfig(ctx *cli.Context) publish.Config {
	return publish.Config{
		Bucket:    ctx.String("s3-bucket"),
		Region:    ctx.String("s3-region"),
		Endpoint:  ctx.String("s3-endpoint"),
		AccessKey: ctx.String("s3-access-key"),
		SecretKey: ctx.String("s3-secret-key"),
		Prefix:    ctx.String("s3-prefix"),
		PublicURL: ctx.String("s3-public-url"),
	}
}
