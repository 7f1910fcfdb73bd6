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
	"strings"

	"github.com/benpye/readline"
	"github.com/urfave/cli"
)

// getCompleter completes digest arguments from whatever the index
// currently holds.
func (cli *CLI) getCompleter() *readline.PrefixCompleter {
	return readline.PcItemDynamic(func(line string) []string {
		f := strings.Split(line, " ")
		if len(f) < 2 {
			return nil
		}

		text := f[len(f)-1]

		matches := cli.index.ResolvePrefix(text, 10)

		digests := make([]string, 0, len(matches))

		for _, match := range matches {
			digests = append(digests, match.Digest)
		}

		return digests
	})
}

func commandAddCompleter(completers *[]readline.PrefixCompleterInterface,
	cmd cli.Command, completer readline.PrefixCompleterInterface) {

	*completers = append(*completers, readline.PcItem(
		cmd.Name, completer,
	))

	for _, alias := range cmd.Aliases {
		*completers = append(*completers, readline.PcItem(
			alias, completer,
		))
	}
}
