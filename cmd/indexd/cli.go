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
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/benpye/readline"
	"github.com/nisha7908/sui/index"
	"github.com/nisha7908/sui/log"
	"github.com/rs/zerolog"
	"github.com/urfave/cli"
)

const (
	vtRed   = "\033[31m"
	vtReset = "\033[39m"
	prompt  = "»»»"
)

type CLI struct {
	app    *cli.App
	rl     *readline.Instance
	index  *index.Index
	logger zerolog.Logger
}

func NewCLI(idx *index.Index, stdin io.ReadCloser, stdout io.Writer) (*CLI, error) {
	c := &CLI{
		index:  idx,
		logger: log.Node(),
		app:    cli.NewApp(),
	}

	c.app.Name = "indexd"
	c.app.HideVersion = true
	c.app.UsageText = "command [arguments...]"
	c.app.CommandNotFound = func(ctx *cli.Context, s string) {
		c.logger.Error().
			Msg("Unknown command: " + s)
	}

	// List of commands and their actions
	c.app.Commands = []cli.Command{
		{
			Name:        "status",
			Aliases:     []string{"l"},
			Action:      a(c.status),
			Description: "print out information about the index",
		},
		{
			Name:        "tx",
			Aliases:     []string{"t"},
			Action:      a(c.tx),
			Description: "look up a transaction record by digest",
		},
		{
			Name:        "object",
			Aliases:     []string{"o"},
			Action:      a(c.object),
			Description: "look up the latest version of an object by digest",
		},
		{
			Name:        "checkpoint",
			Aliases:     []string{"c"},
			Action:      a(c.checkpoint),
			Description: "look up a checkpoint by sequence number or digest",
		},
		{
			Name:        "resolve",
			Aliases:     []string{"f"},
			Action:      a(c.resolve),
			Description: "resolve an abbreviated digest prefix",
		},
		{
			Name:        "objects",
			Aliases:     []string{"ls"},
			Action:      a(c.objects),
			Description: "list live objects in digest order",
		},
		{
			Name:        "seal",
			Aliases:     []string{"s"},
			Action:      a(c.seal),
			Description: "seal a checkpoint over a set of transactions",
		},
		{
			Name:        "random",
			Aliases:     []string{"r"},
			Action:      a(c.random),
			Description: "store a random transaction or object record",
		},
		{
			Name:        "prune",
			Aliases:     []string{"p"},
			Action:      a(c.prune),
			Description: "remove dead object rows from the index",
		},
		{
			Name:    "exit",
			Aliases: []string{"quit", ":q"},
			Action:  a(c.exit),
		},
	}

	// Generate the help message
	s := strings.Builder{}
	s.WriteString("Commands:\n")
	w := tabwriter.NewWriter(&s, 0, 0, 1, ' ', 0)

	for _, c := range c.app.VisibleCommands() {
		_, err := fmt.Fprintf(w,
			"    %s (%s) %s\t%s\n",
			c.Name, strings.Join(c.Aliases, ", "), c.Usage,
			c.Description,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}

	c.app.CustomAppHelpTemplate = s.String()

	// Add in autocompletion
	var completers = make(
		[]readline.PrefixCompleterInterface,
		0, len(c.app.Commands)*2,
	)

	for _, cmd := range c.app.Commands {
		commandAddCompleter(&completers, cmd, c.getCompleter())
	}

	var completer = readline.NewPrefixCompleter(completers...)

	// Make a new readline struct
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            vtRed + prompt + vtReset + " ",
		AutoComplete:      completer,
		HistoryFile:       "/tmp/indexd-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdin:             stdin,
		Stdout:            stdout,
	})

	if err != nil {
		return nil, err
	}

	c.rl = rl

	log.SetWriter(
		log.LoggerSui,
		log.NewConsoleWriter(rl.Stdout(), log.FilterFor(
			log.ModuleNode,
			log.ModuleStore,
			log.ModuleIndex,
			log.ModuleAPI,
		)),
	)

	return c, nil
}

func (cli *CLI) Start() {
ReadLoop:
	for {
		line, err := cli.rl.Readline()
		switch err {
		case readline.ErrInterrupt:
			if len(line) == 0 {
				break ReadLoop
			}

			continue ReadLoop

		case io.EOF:
			break ReadLoop
		}

		r := csv.NewReader(strings.NewReader(line))
		r.Comma = ' '

		s, err := r.Read()
		if err != nil {
			s = strings.Fields(line)
		}

		// Add an app name as $0
		s = append([]string{cli.app.Name}, s...)

		if err := cli.app.Run(s); err != nil {
			cli.logger.Error().Err(err).
				Msg("Failed to run command.")
		}
	}

	_ = cli.rl.Close()
}

func (cli *CLI) exit(ctx *cli.Context) {
	_ = cli.rl.Close()
}

func a(f func(*cli.Context)) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		f(ctx)
		return nil
	}
}
