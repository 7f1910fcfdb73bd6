// Copyright (c) 2019 Perlin
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/nisha7908/sui/api"
	"github.com/nisha7908/sui/conf"
	"github.com/nisha7908/sui/index"
	"github.com/nisha7908/sui/log"
	"github.com/nisha7908/sui/store"
	"github.com/nisha7908/sui/sys"
	"github.com/urfave/cli"
)

func main() {
	log.SetWriter(log.LoggerSui, log.NewConsoleWriter(os.Stderr, log.FilterFor(
		log.ModuleNode,
		log.ModuleStore,
		log.ModuleIndex,
		log.ModuleAPI,
	)))

	logger := log.Node()

	app := cli.NewApp()

	app.Name = "indexd"
	app.Author = "Sui Contributors"
	app.Version = sys.Version
	app.Usage = "a digest-keyed ledger index daemon"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "host",
			Value: "127.0.0.1",
			Usage: "Serve the HTTP API on host address `HOST`.",
		},
		cli.UintFlag{
			Name:  "port, p",
			Value: 9000,
			Usage: "Serve the HTTP API on port `PORT`.",
		},
		cli.StringFlag{
			Name:  "db",
			Value: "",
			Usage: "Directory path `DB` of the database. The index stays in memory if empty.",
		},
		cli.StringFlag{
			Name:  "api.secret",
			Value: "",
			Usage: "Bearer token `TOKEN` clients must present on write routes.",
		},
		cli.Float64Flag{
			Name:  "rate",
			Value: conf.GetRequestsPerSecond(),
			Usage: "Maximum requests per second `RATE` allowed from any one client IP.",
		},
		cli.DurationFlag{
			Name:  "api.timeout",
			Value: conf.GetAPITimeout(),
			Usage: "Timeout `TIMEOUT` for HTTP API requests.",
		},
		cli.Uint64Flag{
			Name:  "prune.limit",
			Value: conf.GetPruneLimit(),
			Usage: "Maximum dead object rows `LIMIT` removed per prune pass. 0 removes them all.",
		},
		cli.BoolFlag{
			Name:  "daemon, d",
			Usage: "Run without the interactive shell.",
		},
	}

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("Version:    %s\n", c.App.Version)
		fmt.Printf("Go Version: %s\n", sys.GoVersion)
		fmt.Printf("Git Commit: %s\n", sys.GitCommit)
		fmt.Printf("OS/Arch:    %s\n", sys.OSArch)
		fmt.Printf("Built:      %s\n", c.App.Compiled.Format(time.ANSIC))
	}

	app.Action = start

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).
			Msg("Failed to parse configuration/command-line arguments.")
	}
}

func start(c *cli.Context) error {
	conf.Update(
		conf.WithAPIHost(c.String("host")),
		conf.WithAPIPort(uint16(c.Uint("port"))),
		conf.WithSecret(c.String("api.secret")),
		conf.WithRequestsPerSecond(c.Float64("rate")),
		conf.WithAPITimeout(c.Duration("api.timeout")),
		conf.WithDatabaseDir(c.String("db")),
		conf.WithPruneLimit(c.Uint64("prune.limit")),
	)

	logger := log.Node()
	logger.Info().Msg("Using config: " + conf.Stringify())

	var (
		kv  store.KV
		err error
	)

	if dir := conf.GetDatabaseDir(); dir != "" {
		kv, err = store.NewLevelDB(dir)
		if err != nil {
			logger.Fatal().Err(err).
				Str("db", dir).
				Msg("Failed to create/open the database.")
		}
	} else {
		kv = store.NewInmem()
	}

	idx, err := index.New(kv)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open the index.")
	}

	gateway := api.New(idx)

	if err := gateway.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start the HTTP API.")
	}

	if c.Bool("daemon") {
		exit := make(chan os.Signal, 1)
		signal.Notify(exit, os.Interrupt)
		<-exit
	} else {
		shell, err := NewCLI(idx, os.Stdin, os.Stdout)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to spawn the shell.")
		}

		shell.Start()
	}

	gateway.Shutdown()
	idx.Close()

	if err := kv.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close the database.")
	}

	return nil
}
