package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"typmark/markup"
	"typmark/richtext"
	"typmark/state"
	"typmark/table"
)

// readSource reads the command's single trailing file argument, "-" being
// stdin.
func readSource(cmd *cli.Command, index int) ([]byte, error) {
	name := cmd.Args().Get(index)
	if name == "" {
		return nil, fmt.Errorf("source argument is required")
	}
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read source '%s': %w", name, err)
	}
	return data, nil
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	data, err := readSource(cmd, 0)
	if err != nil {
		return err
	}

	parser := markup.NewParser(env.Log, markup.NopTranspiler{}, markup.UUIDGenerator{Prefix: env.Cfg.Markup.MathIDPrefix})
	segments := parser.Parse(string(data))
	env.Log.Debug("Markup decoded", zap.Int("bytes", len(data)), zap.Int("segments", len(segments)))

	out, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to serialize segments: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runEncode(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	data, err := readSource(cmd, 0)
	if err != nil {
		return err
	}

	doc, err := richtext.LoadSnapshot(bytes.NewReader(data))
	if err != nil {
		return err
	}
	enc := richtext.NewEncoder(env.Log, markup.NopTranspiler{})
	fmt.Println(enc.Encode(doc.Root()))
	return nil
}

func runTableNormalize(ctx context.Context, cmd *cli.Command) error {
	return runTableOp(ctx, cmd, 0, func(p table.Payload, log *zap.Logger) table.Payload {
		return table.Normalize(p, log)
	})
}

func runTableFlatten(ctx context.Context, cmd *cli.Command) error {
	return runTableOp(ctx, cmd, 0, func(p table.Payload, _ *zap.Logger) table.Payload {
		return table.FlattenMerges(p)
	})
}

func runTableMerge(ctx context.Context, cmd *cli.Command) error {
	coords, err := intArgs(cmd, 4)
	if err != nil {
		return err
	}
	return runTableOp(ctx, cmd, 4, func(p table.Payload, log *zap.Logger) table.Payload {
		return table.MergeRect(p, coords[0], coords[1], coords[2], coords[3], log)
	})
}

func runTableUnmerge(ctx context.Context, cmd *cli.Command) error {
	coords, err := intArgs(cmd, 2)
	if err != nil {
		return err
	}
	return runTableOp(ctx, cmd, 2, func(p table.Payload, log *zap.Logger) table.Payload {
		return table.Unmerge(p, coords[0], coords[1], log)
	})
}

func runTableOp(ctx context.Context, cmd *cli.Command, srcIndex int, op func(table.Payload, *zap.Logger) table.Payload) error {
	env := state.EnvFromContext(ctx)

	data, err := readSource(cmd, srcIndex)
	if err != nil {
		return err
	}

	payload := table.Decode(data, env.Cfg.Table.DefaultRows, env.Cfg.Table.DefaultCols, env.Log)
	out, err := op(payload, env.Log).Marshal()
	if err != nil {
		return fmt.Errorf("unable to serialize table record: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// intArgs parses the leading n arguments as integers, reporting all bad ones
// at once.
func intArgs(cmd *cli.Command, n int) ([]int, error) {
	var err error
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, e := strconv.Atoi(cmd.Args().Get(i))
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("argument %d is not a number: '%s'", i+1, cmd.Args().Get(i)))
			continue
		}
		out[i] = v
	}
	return out, err
}
