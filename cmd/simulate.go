package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"evault/core"
	"evault/handler/views"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [batch files...]",
	Short: "run batches against the configured genesis state",
	Long: `Every batch but the last is committed in order; the last one is simulated and
its per call outcome printed as json. With --commit the last batch is committed too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		events := provideMemoryEventStore()
		sys := provideSystem(ctx, events)

		batches := make([]*core.Batch, 0, len(args))
		for _, file := range args {
			b, err := readBatch(file)
			if err != nil {
				return err
			}

			batches = append(batches, b)
		}

		last := batches[len(batches)-1]
		for idx, b := range batches[:len(batches)-1] {
			if err := sys.Operations.Batch(ctx, b); err != nil {
				return errors.WithMessagef(err, "batch %s", args[idx])
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if commit, _ := cmd.Flags().GetBool("commit"); commit {
			if err := sys.Operations.Batch(ctx, last); err != nil {
				return errors.WithMessagef(err, "batch %s", args[len(args)-1])
			}

			items, err := events.ListByAccount(ctx, core.MustParseAddress(last.Caller).Hex(), 0, 0)
			if err != nil {
				return err
			}

			return enc.Encode(items)
		}

		result, err := sys.Operations.Simulate(ctx, last)
		if err != nil {
			return err
		}

		return enc.Encode(views.NewSimulation(result))
	},
}

func readBatch(file string) (*core.Batch, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var b core.Batch
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		err = json.Unmarshal(data, &b)
	default:
		err = yaml.Unmarshal(data, &b)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", file)
	}

	return &b, nil
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("commit", false, "commit the last batch and print the events of its caller")
}
