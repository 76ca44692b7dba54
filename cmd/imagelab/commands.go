package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"imagelab/internal/config"
	"imagelab/internal/engine"
	"imagelab/internal/histogram"
	"imagelab/internal/morphology"
	"imagelab/internal/point"
	"imagelab/internal/quality"
	"imagelab/internal/raster"
	"imagelab/internal/session"
)

func newOperatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the operator catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, op := range engine.Operators() {
				params := config.Parameters(op).Defaults
				keys := lo.Keys(params)
				slices.Sort(keys)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op, kind(op), op.Description(), strings.Join(keys, ","))
			}
			return tw.Flush()
		},
	}
}

// kind tags operators that read their input as a black/white mask.
func kind(op engine.Operator) string {
	if op.Binary() {
		return "binary"
	}
	return "-"
}

// operatorFlags binds the engine options to command-line flags.
type operatorFlags struct {
	cfg         engine.Config
	elementSize int
}

func (f *operatorFlags) register(fs *pflag.FlagSet) {
	f.cfg = engine.DefaultConfig()
	fs.Float64Var(&f.cfg.Gamma, "gamma", f.cfg.Gamma, "power-law exponent")
	fs.Float64Var(&f.cfg.Scale, "scale", f.cfg.Scale, "power-law scale")
	fs.IntVar(&f.cfg.MinBrightness, "min", f.cfg.MinBrightness, "lower brightness bound (0-255)")
	fs.IntVar(&f.cfg.MaxBrightness, "max", f.cfg.MaxBrightness, "upper brightness bound (0-255)")
	fs.IntVar(&f.cfg.Threshold, "threshold", f.cfg.Threshold, "fixed threshold level (0-255)")
	fs.BoolVar(&f.cfg.MaskIsBlack, "mask-black", false, "treat black as foreground for binary operators")
	fs.BoolVar(&f.cfg.StrictErodeBorder, "strict-erode", false, "treat pixels outside the frame as background when eroding")
	fs.IntVar(&f.elementSize, "element-size", f.cfg.StructuringElement.Size(), "side of the square structuring element")
}

func (f *operatorFlags) config() engine.Config {
	cfg := f.cfg
	cfg.StructuringElement = morphology.Square(f.elementSize)
	return cfg
}

func newApplyCommand(a *app) *cobra.Command {
	var (
		flags operatorFlags
		ops   []string
	)

	cmd := &cobra.Command{
		Use:   "apply <input> <output>",
		Short: "Apply one or more operators and save the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ops) == 0 {
				return fmt.Errorf("at least one --op is required")
			}
			chain := engine.NewChain()
			for _, name := range ops {
				op, err := engine.ParseOperator(name)
				if err != nil {
					return err
				}
				chain.AddStep(engine.Step{Operator: op, Config: flags.config()})
			}

			s := a.session(session.Options{HistorySize: chain.StepCount()})
			if err := s.Load(args[0]); err != nil {
				return err
			}
			if _, err := s.RunChain(a.shutdown.Context(), chain); err != nil {
				return err
			}
			report(cmd.OutOrStdout(), s.History())
			return s.Save(args[1])
		},
	}
	cmd.Flags().StringSliceVar(&ops, "op", nil, "operator name, repeat or comma-separate to chain")
	flags.register(cmd.Flags())
	return cmd
}

func newRecipeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recipe <recipe.yaml> <input> <output>",
		Short: "Run the operator chain described by a YAML recipe",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := config.LoadRecipe(args[0])
			if err != nil {
				return err
			}

			chain := recipe.Chain()
			s := a.session(session.Options{
				ReplaceOriginal: recipe.ReplaceOriginal,
				HistorySize:     chain.StepCount(),
			})
			if err := s.Load(args[1]); err != nil {
				return err
			}
			if _, err := s.RunChain(a.shutdown.Context(), chain); err != nil {
				return err
			}
			report(cmd.OutOrStdout(), s.History())
			return s.Save(args[2])
		},
	}
}

// report prints one line per applied step with its elapsed time.
func report(w io.Writer, history []session.Entry) {
	for _, entry := range history {
		res := entry.Result
		line := res.Operator.String()
		if res.Operator.Binary() {
			line += " [binary]"
		}
		switch {
		case res.Degenerate:
			line += ": " + res.Warning.Error()
		case res.Operator == engine.Otsu:
			line += fmt.Sprintf(": level %d", res.Level)
		case res.Operator == engine.Skeleton:
			line += fmt.Sprintf(": %d pass(es)", res.Passes)
		}
		fmt.Fprintf(w, "%s (%v)\n", line, entry.Duration.Round(time.Microsecond))
	}
}

func newHistogramCommand(a *app) *cobra.Command {
	var (
		buckets int
		width   int
	)

	cmd := &cobra.Command{
		Use:   "histogram <input>",
		Short: "Print the gray and brightness histograms of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if buckets <= 0 || histogram.Bins%buckets != 0 {
				return fmt.Errorf("buckets must divide %d, got %d", histogram.Bins, buckets)
			}
			img, err := a.codec().Open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %dx%d %s\n", args[0], img.Buffer.Width(), img.Buffer.Height(), img.Format)

			gray := histogram.AverageGray(img.Buffer)
			bright := histogram.Brightness(img.Buffer)
			fmt.Fprintln(out, "average gray:")
			printBars(out, gray, buckets, width)
			fmt.Fprintln(out, "brightness:")
			printBars(out, bright, buckets, width)
			fmt.Fprintf(out, "otsu level: %d\n", point.OtsuLevel(bright))
			return nil
		},
	}
	cmd.Flags().IntVar(&buckets, "buckets", 16, "number of bars, must divide 256")
	cmd.Flags().IntVar(&width, "width", 40, "width of the longest bar")
	return cmd
}

// printBars draws h grouped into buckets, scaled so the tallest bucket is
// width characters long.
func printBars(w io.Writer, h histogram.Histogram, buckets, width int) {
	per := histogram.Bins / buckets
	sums := lo.Map(lo.Range(buckets), func(i int, _ int) int {
		return lo.Sum(h[i*per : (i+1)*per])
	})
	peak := lo.Max(sums)
	for i, n := range sums {
		bar := 0
		if peak > 0 {
			bar = n * width / peak
		}
		fmt.Fprintf(w, "  %3d-%3d %8d %s\n", i*per, (i+1)*per-1, n, strings.Repeat("#", bar))
	}
}

func newCompareCommand(a *app) *cobra.Command {
	var maskBlack bool

	cmd := &cobra.Command{
		Use:   "compare <reference> <processed>",
		Short: "Report PSNR and binary segmentation agreement between two images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.codec()
			ref, err := c.Open(args[0])
			if err != nil {
				return err
			}
			proc, err := c.Open(args[1])
			if err != nil {
				return err
			}

			psnr, err := quality.PSNR(ref.Buffer, proc.Buffer)
			if err != nil {
				return err
			}
			fg := raster.PackedWhite
			if maskBlack {
				fg = raster.PackedBlack
			}
			seg, err := quality.Segmentation(ref.Buffer, proc.Buffer, fg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "psnr: %.4f dB\n", psnr)
			fmt.Fprintf(out, "iou: %.4f\n", seg.IoU)
			fmt.Fprintf(out, "dice: %.4f\n", seg.DiceCoefficient)
			fmt.Fprintf(out, "misclassification: %.4f\n", seg.MisclassificationError)
			return nil
		},
	}
	cmd.Flags().BoolVar(&maskBlack, "mask-black", false, "treat black as foreground")
	return cmd
}
