package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/asset/identifier"
	"github.com/photon-storage/stime/pda"
	"github.com/photon-storage/stime/rarity"
	"github.com/photon-storage/stime/temporal"
)

var idCommand = &cli.Command{
	Name:  "id",
	Usage: "generates and formats time slice identifiers",
	Subcommands: []*cli.Command{
		{
			Name:  "generate",
			Usage: "prints STIME-<chain>-<slot>-<timestamp>",
			Flags: []cli.Flag{
				&cli.Uint64Flag{Name: "chain", Required: true},
				&cli.Uint64Flag{Name: "slot", Required: true},
				&cli.Uint64Flag{
					Name:  "timestamp",
					Usage: "Unix milliseconds, defaults to now",
				},
			},
			Action: func(ctx *cli.Context) error {
				ts := ctx.Uint64("timestamp")
				if !ctx.IsSet("timestamp") {
					ts = uint64(time.Now().UnixMilli())
				}
				fmt.Fprintln(ctx.App.Writer, identifier.Generate(ctx.Uint64("chain"), ctx.Uint64("slot"), ts))
				return nil
			},
		},
		{
			Name:      "format",
			Usage:     "renders the identifier timestamp as an ISO-8601 instant",
			ArgsUsage: "<identifier>",
			Action: func(ctx *cli.Context) error {
				if ctx.NArg() != 1 {
					return errors.New("expect exactly one identifier")
				}
				out, err := identifier.Format(ctx.Args().First())
				if err != nil {
					return err
				}
				fmt.Fprintln(ctx.App.Writer, out)
				return nil
			},
		},
	},
}

var validateCommand = &cli.Command{
	Name:  "validate",
	Usage: "checks a time range against the policy",
	Flags: []cli.Flag{
		&cli.TimestampFlag{Name: "start", Layout: time.RFC3339, Required: true},
		&cli.TimestampFlag{Name: "end", Layout: time.RFC3339, Required: true},
		&cli.TimestampFlag{
			Name:   "now",
			Layout: time.RFC3339,
			Usage:  "evaluation instant, defaults to the wall clock",
		},
	},
	Action: func(ctx *cli.Context) error {
		policy, err := loadPolicy(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		if t := ctx.Timestamp("now"); t != nil {
			now = *t
		}
		start, end := *ctx.Timestamp("start"), *ctx.Timestamp("end")

		v := temporal.NewValidator(policy)
		if err := v.CheckRange(start, end, now); err != nil {
			return err
		}
		if err := v.CheckDuration(end.Sub(start)); err != nil {
			return err
		}

		fmt.Fprintf(ctx.App.Writer, "valid, lasts %s, starts in %s\n",
			units.HumanDuration(end.Sub(start)), units.HumanDuration(start.Sub(now)))
		return nil
	},
}

var scoreCommand = &cli.Command{
	Name:  "score",
	Usage: "computes the rarity score of a duration",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "duration", Required: true},
		&cli.Uint64Flag{Name: "historical"},
		&cli.Uint64Flag{Name: "special"},
	},
	Action: func(ctx *cli.Context) error {
		policy, err := loadPolicy(ctx)
		if err != nil {
			return err
		}

		score := rarity.NewEngine(policy).Score(
			ctx.Duration("duration"),
			ctx.Uint64("historical"),
			ctx.Uint64("special"),
		)
		fmt.Fprintln(ctx.App.Writer, score)
		return nil
	},
}

var valueCommand = &cli.Command{
	Name:  "value",
	Usage: "estimates the market value of a slice",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "duration", Required: true},
		&cli.Uint64Flag{Name: "rarity"},
	},
	Action: func(ctx *cli.Context) error {
		policy, err := loadPolicy(ctx)
		if err != nil {
			return err
		}

		start := time.Unix(0, 0).UTC()
		v := rarity.NewEngine(policy).EstimateValue(asset.TimeSlice{
			StartTime:   start,
			EndTime:     start.Add(ctx.Duration("duration")),
			RarityScore: ctx.Uint64("rarity"),
		})
		fmt.Fprintln(ctx.App.Writer, v.String())
		return nil
	},
}

var deriveCommand = &cli.Command{
	Name:  "derive",
	Usage: "derives a program address from ordered seeds",
	Description: "Each --seed is taken as utf-8 text unless prefixed with\n" +
		"b58: (a base58 address) or hex: (raw bytes).",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "program", Required: true},
		&cli.StringSliceFlag{Name: "seed"},
	},
	Action: func(ctx *cli.Context) error {
		policy, err := loadPolicy(ctx)
		if err != nil {
			return err
		}

		program, err := asset.ParseAddress(ctx.String("program"))
		if err != nil {
			return err
		}

		seeds := make([][]byte, 0)
		for _, s := range ctx.StringSlice("seed") {
			seed, err := parseSeed(s)
			if err != nil {
				return err
			}
			seeds = append(seeds, seed)
		}

		addr, bump, err := pda.NewDeriver(policy).Derive(seeds, program)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %d\n", addr, bump)
		return nil
	},
}

func parseSeed(s string) ([]byte, error) {
	switch {
	case strings.HasPrefix(s, "b58:"):
		addr, err := asset.ParseAddress(strings.TrimPrefix(s, "b58:"))
		if err != nil {
			return nil, err
		}
		return addr.Bytes(), nil

	case strings.HasPrefix(s, "hex:"):
		raw, err := hex.DecodeString(strings.TrimPrefix(s, "hex:"))
		if err != nil {
			return nil, errors.Wrapf(err, "seed %q", s)
		}
		return raw, nil

	default:
		return []byte(s), nil
	}
}
