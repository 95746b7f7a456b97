package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/techflow/pkg/config"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/io"
	"github.com/matzehuels/techflow/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	keyword string // filter for --all or for choosing one technology
	all     bool   // render every matching technology
	formats string // comma-separated output formats; empty uses the config
	output  string // output directory
	refresh bool   // bypass the download and render caches
	from    string // JSON graph document to render instead of a sheet entry
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [id...]",
		Short: "Render technology diagrams to DOT, SVG, PNG or JSON",
		Long: `Render technology diagrams.

Name technologies as arguments, pick one by keyword with -k, or render every
technology matching the keyword with --all. Files are written to the output
directory as <id>.<format>; identifiers that map to the same file name get a
numeric suffix.

With --from, a graph saved earlier with -f json is rendered again without
reading the sheet.`,
		Example: `  techflow render electric_water_heater
  techflow render -k heat --all -f svg,png -o diagrams
  techflow render --from diagrams/heat_pump.json -f png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.keyword, "keyword", "k", "", "case-insensitive filter")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every technology matching the keyword")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): dot, svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached downloads and renders")
	cmd.Flags().StringVar(&opts.from, "from", "", "render a JSON graph document instead of a sheet entry")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, opts renderOpts) error {
	popts, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	if opts.formats != "" {
		if popts.Formats, err = config.ParseFormats([]string{opts.formats}); err != nil {
			return err
		}
	}
	popts.Refresh = opts.refresh

	if opts.from != "" {
		if len(args) > 0 || opts.all || opts.keyword != "" {
			return errors.New(errors.ErrCodeInvalidInput, "--from renders one graph file; drop the IDs and --keyword/--all")
		}
		return c.renderDocument(ctx, opts.from, popts, opts.output)
	}

	runner, err := c.newRunner(ctx, opts.refresh)
	if err != nil {
		return err
	}
	defer runner.Close()

	ids, err := selectIDs(runner, args, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if len(ids) == 1 {
		res, err := runner.Execute(ctx, ids[0], popts)
		if err != nil {
			return err
		}
		return writeResult(res, opts.output, fileName(res.ID))
	}
	return c.renderBatch(ctx, runner, ids, popts, opts.output)
}

// renderDocument renders a JSON graph document written by an earlier
// "render -f json".
func (c *CLI) renderDocument(ctx context.Context, path string, popts pipeline.Options, dir string) error {
	g, err := io.ImportJSON(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read graph %s", path)
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, c.Config.Keyer(), c.Logger)
	defer runner.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	res, err := runner.ExecuteGraph(ctx, g, popts)
	if err != nil {
		return err
	}
	return writeResult(res, dir, fileName(res.ID))
}

// selectIDs resolves the technologies to render from arguments and flags.
func selectIDs(runner *pipeline.Runner, args []string, opts renderOpts) ([]string, error) {
	if len(args) > 0 {
		if opts.all || opts.keyword != "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "give technology IDs or --keyword/--all, not both")
		}
		return args, nil
	}
	if !opts.all && opts.keyword == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no technology given (pass an ID, --keyword or --all)")
	}

	ids, err := runner.IDs(opts.keyword)
	if err != nil {
		return nil, err
	}
	switch {
	case len(ids) == 0:
		return nil, errors.New(errors.ErrCodeNotFound, "no technologies match %q", opts.keyword)
	case opts.all || len(ids) == 1:
		return ids, nil
	}

	say(statusWarn, "%d technologies match %q", len(ids), opts.keyword)
	for _, id := range ids {
		detail("%s", id)
	}
	nextStep("Render all of them", fmt.Sprintf("%s render -k %q --all", appName, opts.keyword))
	return nil, errors.New(errors.ErrCodeInvalidInput, "keyword %q is ambiguous", opts.keyword)
}

func (c *CLI) renderBatch(ctx context.Context, runner *pipeline.Runner, ids []string, popts pipeline.Options, dir string) error {
	runID := uuid.NewString()
	logger := c.Logger.With("run", runID[:8])
	logger.Info("batch render", "technologies", len(ids), "formats", popts.Formats)
	prog := newProgress(logger)

	names := fileNames(ids)
	spin := newSpinner(ctx, os.Stderr, "Rendering %s", plural(len(ids), "technology"))
	spin.Start()
	defer spin.Stop()

	var done, failed int
	runner.Batch(ctx, ids, popts, func(it pipeline.BatchItem) {
		done++
		spin.Update("Rendered %d/%d · %s", done, len(ids), it.ID)
		spin.Pause(func() {
			if it.Err != nil {
				failed++
				say(statusFail, "%s: %s", it.ID, errors.UserMessage(it.Err))
				return
			}
			if err := writeResult(it.Result, dir, names[it.ID]); err != nil {
				failed++
				say(statusFail, "%s: %v", it.ID, err)
			}
		})
	})
	spin.Stop()
	if err := ctx.Err(); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Rendered %d of %d technologies", len(ids)-failed, len(ids)))
	if failed > 0 {
		return fmt.Errorf("%d of %d technologies failed", failed, len(ids))
	}
	return nil
}

// writeResult writes every artifact of res into dir as base.<format> and
// prints a summary.
func writeResult(res *pipeline.Result, dir, base string) error {
	printResult(res)
	for _, f := range slices.Sorted(maps.Keys(res.Artifacts)) {
		data := res.Artifacts[f]
		path := filepath.Join(dir, base+"."+string(f))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printArtifact(path, len(data))
	}
	return nil
}

// fileNames assigns each id a distinct file name. Identifiers that map to
// the same name, ignoring case, get "-2", "-3" and so on in input order.
func fileNames(ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	taken := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		base := fileName(id)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		taken[strings.ToLower(name)] = true
		names[id] = name
	}
	return names
}

// fileName makes a technology identifier safe to use as a file name.
func fileName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(id))
	if name == "" || name == "." || name == ".." {
		return "technology"
	}
	return name
}
