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
	"strconv"

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/index"
	"github.com/urfave/cli"
)

func (cli *CLI) status(ctx *cli.Context) {
	transactions, objects, checkpoints, err := cli.index.Size()
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("Failed to read the index size.")
		return
	}

	ev := cli.logger.Info().
		Uint64("num_transactions", transactions).
		Uint64("num_objects", objects).
		Uint64("num_checkpoints", checkpoints).
		Int("num_live_objects", cli.index.NumLive())

	if latest, latestErr := cli.index.LatestCheckpoint(); latestErr == nil {
		ev = ev.
			Uint64("checkpoint_seq", latest.Sequence).
			Str("checkpoint_digest", latest.Digest.String())
	}

	ev.Msg("Here is the current status of your index.")
}

func (cli *CLI) tx(ctx *cli.Context) {
	var cmd = ctx.Args()

	if len(cmd) != 1 {
		fmt.Println("tx <digest>")
		return
	}

	digest, err := sui.ParseTransactionDigest(cmd[0])
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("The transaction digest you specified is invalid.")
		return
	}

	rec, err := cli.index.Transaction(digest)
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("Could not find that transaction.")
		return
	}

	cli.logger.Info().
		Str("effects", rec.Effects.String()).
		Str("events", rec.Events.String()).
		Uint64("checkpoint", rec.Checkpoint).
		Msgf("Transaction: %s", rec.Digest)
}

func (cli *CLI) object(ctx *cli.Context) {
	var cmd = ctx.Args()

	if len(cmd) != 1 {
		fmt.Println("object <digest>")
		return
	}

	digest, err := sui.ParseObjectDigest(cmd[0])
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("The object digest you specified is invalid.")
		return
	}

	rec, err := cli.index.Object(digest)
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("Could not find that object.")
		return
	}

	cli.logger.Info().
		Str("state", rec.State.String()).
		Str("transaction", rec.Transaction.String()).
		Uint64("version", rec.Version).
		Bool("alive", rec.Alive()).
		Msgf("Object: %s", rec.Digest)
}

func (cli *CLI) checkpoint(ctx *cli.Context) {
	var (
		cmd = ctx.Args()

		rec index.CheckpointRecord
		err error
	)

	switch {
	case len(cmd) == 0:
		rec, err = cli.index.LatestCheckpoint()

	case len(cmd) != 1:
		fmt.Println("checkpoint [seq | digest]")
		return

	default:
		if seq, parseErr := strconv.ParseUint(cmd[0], 10, 64); parseErr == nil {
			rec, err = cli.index.Checkpoint(seq)
		} else {
			digest, parseErr := sui.ParseCheckpointDigest(cmd[0])
			if parseErr != nil {
				cli.logger.Error().Err(parseErr).
					Msg("The checkpoint you specified is neither a sequence number nor a digest.")
				return
			}

			rec, err = cli.index.CheckpointByDigest(digest)
		}
	}

	if err != nil {
		cli.logger.Error().Err(err).
			Msg("Could not find that checkpoint.")
		return
	}

	cli.logger.Info().
		Uint64("seq", rec.Sequence).
		Str("contents", rec.Contents.String()).
		Int("num_transactions", len(rec.Transactions)).
		Msgf("Checkpoint: %s", rec.Digest)
}

func (cli *CLI) resolve(ctx *cli.Context) {
	var cmd = ctx.Args()

	if len(cmd) != 1 {
		fmt.Println("resolve <prefix>")
		return
	}

	matches := cli.index.ResolvePrefix(cmd[0], 0)

	if len(matches) == 0 {
		cli.logger.Info().
			Msgf("No digests start with %q.", cmd[0])
		return
	}

	digests := make([]string, 0, len(matches))

	for _, match := range matches {
		digests = append(digests, match.Kind+":"+match.Digest)
	}

	cli.logger.Info().
		Strs("matches", digests).
		Msgf("Found %d digest(s) starting with %q.", len(matches), cmd[0])
}

func (cli *CLI) objects(ctx *cli.Context) {
	var cmd = ctx.Args()

	after := sui.MinObjectDigest

	if len(cmd) > 0 {
		parsed, err := sui.ParseObjectDigest(cmd[0])
		if err != nil {
			cli.logger.Error().Err(err).
				Msg("The object digest you specified is invalid.")
			return
		}

		after = parsed
	}

	live := cli.index.LiveObjects(after, 0)

	digests := make([]string, 0, len(live))

	for _, digest := range live {
		digests = append(digests, digest.String())
	}

	cli.logger.Info().
		Strs("objects", digests).
		Msgf("Listed %d live object(s).", len(live))
}

func (cli *CLI) seal(ctx *cli.Context) {
	var cmd = ctx.Args()

	if len(cmd) < 2 {
		fmt.Println("seal <digest> <contents> [tx...]")
		return
	}

	digest, err := sui.ParseCheckpointDigest(cmd[0])
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("The checkpoint digest you specified is invalid.")
		return
	}

	// Contents digests do not parse; decode through the primitive instead.
	decoded, err := sui.ParseDigest(cmd[1])
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("The checkpoint contents digest you specified is invalid.")
		return
	}

	contents := sui.CheckpointContentsDigest(decoded)

	txs := make([]sui.TransactionDigest, 0, len(cmd)-2)

	for _, raw := range cmd[2:] {
		tx, err := sui.ParseTransactionDigest(raw)
		if err != nil {
			cli.logger.Error().Err(err).
				Msgf("The transaction digest %q is invalid.", raw)
			return
		}

		txs = append(txs, tx)
	}

	rec, err := cli.index.SealCheckpoint(digest, contents, txs)
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("Failed to seal the checkpoint.")
		return
	}

	cli.logger.Info().
		Uint64("seq", rec.Sequence).
		Int("num_transactions", len(rec.Transactions)).
		Msgf("Success! Sealed checkpoint %s.", rec.Digest)
}

func (cli *CLI) random(ctx *cli.Context) {
	var cmd = ctx.Args()

	kind := "tx"
	if len(cmd) > 0 {
		kind = cmd[0]
	}

	switch kind {
	case "tx":
		rec := index.TransactionRecord{
			Digest:  sui.RandomTransactionDigest(),
			Effects: sui.RandomTransactionEffectsDigest(),
			Events:  sui.RandomTransactionEventsDigest(),
		}

		if err := cli.index.PutTransaction(rec); err != nil {
			cli.logger.Error().Err(err).
				Msg("Failed to store the random transaction.")
			return
		}

		cli.logger.Info().
			Msgf("Stored a random transaction: %s", rec.Digest)

	case "object":
		rec := index.ObjectRecord{
			Digest:      sui.RandomObjectDigest(),
			Transaction: sui.RandomTransactionDigest(),
			Version:     1,
		}

		if err := cli.index.PutObject(rec); err != nil {
			cli.logger.Error().Err(err).
				Msg("Failed to store the random object.")
			return
		}

		cli.logger.Info().
			Msgf("Stored a random object: %s", rec.Digest)

	default:
		fmt.Println("random [tx | object]")
	}
}

func (cli *CLI) prune(ctx *cli.Context) {
	removed, err := cli.index.PruneObjects()
	if err != nil {
		cli.logger.Error().Err(err).
			Msg("Failed to prune dead object rows.")
		return
	}

	cli.logger.Info().
		Int("num_removed", removed).
		Msg("Pruned dead object rows.")
}
