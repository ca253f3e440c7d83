// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/votecube/pollcache/cmd/server/pollcache"
	"github.com/votecube/pollcache/common/config"
)

const (
	envKeyRoot             = "POLLCACHE_ROOT"
	envKeyConfigDir        = "POLLCACHE_CONFIG_DIR"
	envKeyEnvironment      = "POLLCACHE_ENVIRONMENT"
	envKeyAvailabilityZone = "POLLCACHE_AVAILABILITY_ZONE"
	envKeyAddress          = "POLLCACHE_ADDRESS"
)

func startHandler(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log.Printf("config=\n%v\n", cfg.String())
	return pollcache.Run(cfg)
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	env := getEnvironment(c)
	zone := getZone(c)
	configDir := getConfigDir(c)

	log.Printf("Loading config; env=%v,zone=%v,configDir=%v\n", env, zone, configDir)

	var cfg config.Config
	if err := config.Load(env, configDir, zone, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := cfg.ValidateAndFillDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func getRootDir(c *cli.Context) string {
	rootDir := c.String("root")
	if len(rootDir) == 0 {
		var err error
		if rootDir, err = os.Getwd(); err != nil {
			rootDir = "."
		}
	}
	return rootDir
}

func getConfigDir(c *cli.Context) string {
	return path.Join(getRootDir(c), c.String("config"))
}

func getEnvironment(c *cli.Context) string {
	return strings.TrimSpace(c.String("env"))
}

func getZone(c *cli.Context) string {
	return strings.TrimSpace(c.String("zone"))
}

func buildCLI() *cli.App {
	app := cli.NewApp()
	app.Name = "pollcache"
	app.Usage = "Time sharded poll ranking cache"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Value:   ".",
			Usage:   "root directory of execution environment",
			EnvVars: []string{envKeyRoot},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config",
			Usage:   "config dir path relative to root",
			EnvVars: []string{envKeyConfigDir},
		},
		&cli.StringFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Value:   "development",
			Usage:   "runtime environment",
			EnvVars: []string{envKeyEnvironment},
		},
		&cli.StringFlag{
			Name:    "zone",
			Aliases: []string{"az"},
			Value:   "",
			Usage:   "availability zone",
			EnvVars: []string{envKeyAvailabilityZone},
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "start",
			Usage: "start the poll cache server",
			Action: func(c *cli.Context) error {
				return startHandler(c)
			},
		},
		{
			Name:  "top",
			Usage: "print a leaderboard of a running server",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "address",
					Aliases: []string{"a"},
					Value:   "http://127.0.0.1:7940",
					Usage:   "base URL of the server",
					EnvVars: []string{envKeyAddress},
				},
				&cli.StringFlag{
					Name:  "tz",
					Value: "14",
					Usage: "timezone id, or global for category rankings",
				},
				&cli.StringFlag{
					Name:  "period",
					Value: "today",
					Usage: "today, yesterday, day-before-yesterday, this-week, last-week, this-month or last-month",
				},
				&cli.Uint64Flag{
					Name:  "location",
					Usage: "location id",
				},
				&cli.Uint64Flag{
					Name:  "category",
					Usage: "category id",
				},
				&cli.IntFlag{
					Name:  "n",
					Value: 10,
					Usage: "number of polls to print",
				},
			},
			Action: func(c *cli.Context) error {
				return topHandler(c, os.Stdout)
			},
		},
	}

	return app
}

func main() {
	app := buildCLI()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
