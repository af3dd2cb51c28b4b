package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"callgen/internal/check"
	"callgen/internal/config"
	"callgen/internal/diag"
	"callgen/internal/target"
	"callgen/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check <target>",
	Short: "Validate a target description",
	Long: `check loads a target description and reports every catalog and relation
problem at once. With --config the generation bounds are validated too.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("config", "", "also validate the [gen] bounds of this project file")
	checkCmd.Flags().Bool("watch", false, "re-check whenever the target file changes")
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	if _, err = setupColor(cmd); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	lim, err := checkLimits(cmd)
	if err != nil {
		return err
	}
	watchFlag, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	out := cmd.OutOrStdout()
	if !watchFlag {
		err = checkOnce(out, args[0], lim, quiet)
		if errors.Is(err, errProblems) {
			// Diagnostics are already printed; exit non-zero without repeating them.
			cmd.SilenceErrors = true
		}
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watch.File(ctx, args[0], watch.DefaultDebounce, func() {
		fmt.Fprintf(out, "%s checking %s\n", color.CyanString("--"), args[0])
		// A broken target is reported and the watch goes on.
		if err := checkOnce(out, args[0], lim, false); err != nil && !errors.Is(err, errProblems) {
			fmt.Fprintf(out, "%s %v\n", sevErrorColor.Sprint("error:"), err)
		}
	})
}

// checkLimits returns the bounds to validate. Without a project file only
// the catalog and relations are checked.
func checkLimits(cmd *cobra.Command) (check.Limits, error) {
	lim := check.Limits{ProgMaxLen: 1, StrMinLen: 0, StrMaxLen: 1, PathMaxDepth: 1}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return lim, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		return lim, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return lim, err
	}
	gc := cfg.GenConfig()
	return check.Limits{
		ProgMaxLen:   gc.ProgMaxLen,
		StrMinLen:    gc.StrMinLen,
		StrMaxLen:    gc.StrMaxLen,
		PathMaxDepth: gc.PathMaxDepth,
	}, nil
}

// errProblems reports a target whose diagnostics were printed.
var errProblems = errors.New("target has problems")

func checkOnce(out io.Writer, path string, lim check.Limits, quiet bool) error {
	tgt, err := target.LoadFile(path)
	if err != nil {
		return err
	}
	bag := check.All(tgt.Catalog, tgt.Tables, lim)
	printDiagnostics(out, path, bag)
	if bag.HasErrors() {
		return fmt.Errorf("%s: %w (%d diagnostics)", path, errProblems, bag.Len())
	}
	if !quiet {
		fmt.Fprintf(out, "%s: %s\n", path, color.GreenString("ok"))
	}
	return nil
}

var (
	sevErrorColor   = color.New(color.FgRed, color.Bold)
	sevWarningColor = color.New(color.FgYellow, color.Bold)
	sevInfoColor    = color.New(color.FgCyan)
	noteColor       = color.New(color.Faint)
)

func printDiagnostics(out io.Writer, path string, bag *diag.Bag) {
	for _, d := range bag.Items() {
		c := sevInfoColor
		switch d.Severity {
		case diag.SevError:
			c = sevErrorColor
		case diag.SevWarning:
			c = sevWarningColor
		}
		sev := c.Sprint(d.Severity.Label())
		subject := ""
		if d.Subject != "" {
			subject = " " + d.Subject
		}
		fmt.Fprintf(out, "%s: %s[%s]%s: %s\n", path, sev, d.Code.ID(), subject, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(out, "  %s %s\n", noteColor.Sprint("note:"), n)
		}
	}
}
