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
	"io/ioutil"
	"os"
	"time"

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/log"
	"github.com/nisha7908/sui/sys"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var kindFlag = cli.StringFlag{
	Name:  "kind, k",
	Value: "digest",
	Usage: "digest kind `KIND`: digest, tx, effects, events, object, checkpoint, contents",
}

func main() {
	log.SetWriter(log.LoggerSui,
		log.NewConsoleWriter(os.Stderr, log.FilterFor(log.ModuleNode)))

	logger := log.Node()

	app := cli.NewApp()

	app.Name = "digest"
	app.Author = "Sui Contributors"
	app.Version = sys.Version
	app.Usage = "inspect, generate and convert ledger digests"
	app.EnableBashCompletion = true

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("Version:    %s\n", c.App.Version)
		fmt.Printf("Go Version: %s\n", sys.GoVersion)
		fmt.Printf("Git Commit: %s\n", sys.GitCommit)
		fmt.Printf("OS/Arch:    %s\n", sys.OSArch)
		fmt.Printf("Built:      %s\n", c.App.Compiled.Format(time.ANSIC))
	}

	app.Commands = []cli.Command{
		{
			Name:  "random",
			Usage: "generate a random digest",
			Flags: []cli.Flag{kindFlag},
			Action: func(c *cli.Context) error {
				describe(c.String("kind"), sui.RandomDigest())
				return nil
			},
		},
		{
			Name:      "parse",
			Usage:     "validate a base58 digest and print its canonical forms",
			ArgsUsage: "<base58>",
			Flags:     []cli.Flag{kindFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return errors.New("parse expects exactly one base58 digest")
				}

				d, err := sui.ParseDigest(c.Args().First())
				if err != nil {
					return err
				}

				describe(c.String("kind"), d)
				return nil
			},
		},
		{
			Name:      "hex",
			Usage:     "print the hex forms of a base58 digest",
			ArgsUsage: "<base58>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return errors.New("hex expects exactly one base58 digest")
				}

				d, err := sui.ParseDigest(c.Args().First())
				if err != nil {
					return err
				}

				fmt.Println(d.Hex())
				fmt.Println(d.HexUpper())
				fmt.Println(d.HexPrefixed())
				fmt.Println(d.HexUpperPrefixed())

				return nil
			},
		},
		{
			Name:  "genesis",
			Usage: "print the well-known sentinel digests",
			Action: func(c *cli.Context) error {
				fmt.Printf("genesis transaction: %s\n", sui.GenesisTransactionDigest())
				fmt.Printf("min object:          %s\n", sui.MinObjectDigest)
				fmt.Printf("max object:          %s\n", sui.MaxObjectDigest)
				fmt.Printf("deleted object:      %s\n", sui.DeletedObjectDigest)
				fmt.Printf("wrapped object:      %s\n", sui.WrappedObjectDigest)

				return nil
			},
		},
		{
			Name:      "sum",
			Usage:     "hash a file, or stdin when no path is given, into a digest",
			ArgsUsage: "[path]",
			Flags:     []cli.Flag{kindFlag},
			Action: func(c *cli.Context) error {
				var (
					data []byte
					err  error
				)

				if c.NArg() > 0 {
					data, err = ioutil.ReadFile(c.Args().First())
				} else {
					data, err = ioutil.ReadAll(os.Stdin)
				}

				if err != nil {
					return errors.Wrap(err, "failed to read input")
				}

				describe(c.String("kind"), sui.SumDigest(data))
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).
			Msg("Failed to run command.")
	}
}

// describe prints the canonical forms of a digest, dressed up as the
// requested kind. Object digests additionally report liveness, since the
// tombstone values are ordinary 32-byte digests.
func describe(kind string, d sui.Digest) {
	var buf [sui.SizeDigest]byte
	copy(buf[:], d.Bytes())

	fmt.Printf("kind:   %s\n", kind)
	fmt.Printf("base58: %s\n", d)
	fmt.Printf("hex:    %s\n", d.HexPrefixed())

	switch kind {
	case "digest", "effects", "events", "checkpoint", "contents":

	case "tx":
		if sui.NewTransactionDigest(buf) == sui.GenesisTransactionDigest() {
			fmt.Println("note:   genesis marker (no parent transaction)")
		}

	case "object":
		obj := sui.NewObjectDigest(buf)

		fmt.Printf("go:     %#v\n", obj)

		switch {
		case obj == sui.DeletedObjectDigest:
			fmt.Println("note:   deleted tombstone")
		case obj == sui.WrappedObjectDigest:
			fmt.Println("note:   wrapped tombstone")
		case obj == sui.MinObjectDigest:
			fmt.Println("note:   minimum sentinel")
		case obj == sui.MaxObjectDigest:
			fmt.Println("note:   maximum sentinel")
		}

	default:
		logger := log.Node()
		logger.Fatal().Str("kind", kind).
			Msg("Unknown digest kind.")
	}
}
