package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"callgen/internal/config"
	"callgen/internal/driver"
	"callgen/internal/gen"
	"callgen/internal/observ"
	"callgen/internal/prog"
	"callgen/internal/progfile"
	"callgen/internal/progfmt"
	"callgen/internal/target"
	"callgen/internal/trace"
	"callgen/internal/version"
)

type outputFormat string

const (
	formatText    outputFormat = "text"
	formatJSON    outputFormat = "json"
	formatMsgpack outputFormat = "msgpack"
)

func readOutputFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatText, formatJSON, formatMsgpack:
		return f, nil
	case "":
		return formatText, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be text, json or msgpack)", value)
	}
}

var errNoProject = errors.New("no " + config.FileName + " found; pass --config")

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of programs",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("target", "", "target description (overrides [target].path)")
	generateCmd.Flags().String("config", "", "project file (default: search for "+config.FileName+")")
	generateCmd.Flags().IntP("count", "n", 1, "number of programs")
	generateCmd.Flags().Uint64("seed", 0, "batch seed (default: from [batch].seed or the clock)")
	generateCmd.Flags().Int("jobs", 0, "parallel workers (0=auto)")
	generateCmd.Flags().String("format", string(formatText), "output format (text|json|msgpack)")
	generateCmd.Flags().String("out", "", "write one file per program into this directory")
	generateCmd.Flags().String("ui", string(uiModeAuto), "progress UI (auto|on|off), only with --out")
	generateCmd.Flags().Int("width", 48, "max display width of string literals in text output (0=unlimited)")
}

type generateRun struct {
	cfg        *config.File
	targetPath string
	tgt        *target.Target
	digest     progfile.Digest
	format     outputFormat
	outDir     string
	width      int
	seed       uint64
}

func runGenerate(cmd *cobra.Command, _ []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	if _, err = setupColor(cmd); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "generate", 0)
	defer span.End("")
	ctx = trace.WithParent(ctx, span.ID())

	timer := observ.NewTimer()
	defer printTimings(cmd.ErrOrStderr(), timer, showTimings)

	run := &generateRun{}
	if err = timer.Measure(observ.PhaseLoad, func() error { return run.load(cmd) }); err != nil {
		return err
	}

	var g *gen.Generator
	err = timer.Measure(observ.PhaseCheck, func() error {
		var nerr error
		g, nerr = gen.New(run.tgt.Catalog, run.tgt.Tables, run.cfg.GenConfig())
		return nerr
	})
	if err != nil {
		return fmt.Errorf("%s: %w", run.targetPath, err)
	}
	g = g.WithTracer(tracer)

	opts, err := run.batchOptions(cmd)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "seed %d, %d programs\n", opts.Seed, opts.Count)
	}

	tally := driver.NewTally(opts.Count)
	opts.Sink = tally
	beatEvery, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	heartbeat := trace.StartHeartbeat(tracer, beatEvery, tally.String)
	defer heartbeat.Stop()

	var emitter *recordEmitter
	if run.outDir != "" {
		emitter, err = newRecordEmitter(run)
		if err != nil {
			return err
		}
		opts.Emit = emitter.emit
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	// The progress view owns stdout, so it only runs when programs go to files.
	useTUI := run.outDir != "" && !quiet && shouldUseTUI(mode)

	var progs []*prog.Prog
	genIdx := timer.Begin(observ.PhaseGenerate)
	if useTUI {
		progs, err = runBatchWithUI(ctx, "generating into "+run.outDir, g, opts)
	} else {
		progs, err = driver.Batch(ctx, g, opts)
	}
	timer.End(genIdx, fmt.Sprintf("%d programs", len(progs)))
	if err != nil {
		return err
	}

	if emitter != nil {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s to %s\n", tally, run.outDir)
		}
		return nil
	}
	return timer.Measure(observ.PhaseWrite, func() error {
		return run.writeAll(cmd.OutOrStdout(), progs)
	})
}

// load resolves the project file and target and reads the output flags.
func (r *generateRun) load(cmd *cobra.Command) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		r.cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("failed to get working directory: %w", wdErr)
		}
		var ok bool
		r.cfg, ok, err = config.Discover(wd)
		if err != nil {
			return err
		}
		if !ok {
			return errNoProject
		}
	}

	targetFlag, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	r.targetPath = targetFlag
	if r.targetPath == "" {
		r.targetPath = r.cfg.TargetPath()
	}
	if r.targetPath == "" {
		return fmt.Errorf("%s: no [target].path and no --target", r.cfg.Path)
	}
	if abs, absErr := filepath.Abs(r.targetPath); absErr == nil {
		r.targetPath = abs
	}
	r.tgt, err = target.LoadFile(r.targetPath)
	if err != nil {
		return err
	}
	r.digest, err = progfile.DigestFile(r.targetPath)
	if err != nil {
		return fmt.Errorf("failed to hash target: %w", err)
	}

	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if r.format, err = readOutputFormat(formatFlag); err != nil {
		return err
	}
	if r.outDir, err = cmd.Flags().GetString("out"); err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	if r.format == formatMsgpack && r.outDir == "" {
		return errors.New("--format msgpack requires --out")
	}
	if r.width, err = cmd.Flags().GetInt("width"); err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	if r.width < 0 {
		return fmt.Errorf("--width must be non-negative, got %d", r.width)
	}
	return nil
}

// batchOptions merges flags over [batch] defaults. Flags win when set.
func (r *generateRun) batchOptions(cmd *cobra.Command) (driver.Options, error) {
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get count flag: %w", err)
	}
	if !cmd.Flags().Changed("count") && r.cfg.Batch.Count > 0 {
		count = r.cfg.Batch.Count
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !cmd.Flags().Changed("jobs") && r.cfg.Batch.Jobs > 0 {
		jobs = r.cfg.Batch.Jobs
	}

	seed, err := cmd.Flags().GetUint64("seed")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get seed flag: %w", err)
	}
	switch {
	case cmd.Flags().Changed("seed"):
	case r.cfg.Batch.HasSeed:
		seed = r.cfg.Batch.Seed
	default:
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // clock seeds are non-negative
	}
	r.seed = seed

	return driver.Options{Count: count, Jobs: jobs, Seed: seed}, nil
}

func (r *generateRun) record(index int, p *prog.Prog) *progfile.Record {
	return &progfile.Record{
		Schema: progfile.SchemaVersion,
		Tool:   version.Version,
		Target: r.targetPath,
		Digest: r.digest,
		Seed:   r.seed,
		Index:  index,
		Prog:   p,
	}
}

func (r *generateRun) printer() progfmt.Printer {
	return progfmt.Printer{Cat: r.tgt.Catalog, MaxStr: r.width}
}

// writeAll prints the batch to out in index order.
func (r *generateRun) writeAll(out io.Writer, progs []*prog.Prog) error {
	pr := r.printer()
	for i, p := range progs {
		switch r.format {
		case formatJSON:
			if err := progfile.WriteJSON(out, r.record(i, p)); err != nil {
				return err
			}
		default:
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "# program %d\n", i)
			if err := pr.Fprint(out, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// recordEmitter writes each program into its own file as it completes.
// The driver serializes calls to emit.
type recordEmitter struct {
	run   *generateRun
	store *progfile.Store
}

func newRecordEmitter(run *generateRun) (*recordEmitter, error) {
	store, err := progfile.Open(run.outDir)
	if err != nil {
		return nil, err
	}
	return &recordEmitter{run: run, store: store}, nil
}

func (e *recordEmitter) emit(index int, p *prog.Prog) error {
	rec := e.run.record(index, p)
	switch e.run.format {
	case formatMsgpack:
		if _, err := e.store.Put(rec); err != nil {
			return err
		}
	case formatJSON:
		if err := e.writeFile(index, ".json", func(w io.Writer) error { return progfile.WriteJSON(w, rec) }); err != nil {
			return err
		}
	default:
		pr := e.run.printer()
		if err := e.writeFile(index, ".txt", func(w io.Writer) error { return pr.Fprint(w, p) }); err != nil {
			return err
		}
	}
	return nil
}

func (e *recordEmitter) writeFile(index int, ext string, write func(io.Writer) error) error {
	path := strings.TrimSuffix(e.store.PathFor(index), progfile.Ext) + ext
	// #nosec G304 -- path is derived from --out
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
