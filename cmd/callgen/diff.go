package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"callgen/internal/progfile"
	"callgen/internal/progfmt"
	"callgen/internal/target"
)

var diffCmd = &cobra.Command{
	Use:   "diff <a" + progfile.Ext + "> <b" + progfile.Ext + ">",
	Short: "Compare two stored programs call by call",
	Long: `diff renders two stored programs against one target and prints a unified
diff of the renderings. It exits non-zero when they differ.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().String("target", "", "target description (default: the one recorded in the first file)")
	diffCmd.Flags().Int("width", 0, "max display width of string literals (0=unlimited)")
}

var errProgramsDiffer = errors.New("programs differ")

func runDiff(cmd *cobra.Command, args []string) error {
	if _, err := setupColor(cmd); err != nil {
		return err
	}
	a, err := progfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	b, err := progfile.Load(args[1])
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	targetPath, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	if targetPath == "" {
		targetPath = a.Target
	}
	tgt, err := target.LoadFile(targetPath)
	if err != nil {
		return err
	}
	if !a.Digest.IsZero() && !b.Digest.IsZero() && a.Digest != b.Digest {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s the programs were generated from different target revisions\n",
			color.YellowString("warning:"))
	}

	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	pr := progfmt.Printer{Cat: tgt.Catalog, MaxStr: width}
	d, err := pr.Diff(args[0], a.Prog, args[1], b.Prog)
	if err != nil {
		return err
	}
	if d == "" {
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), d)
	cmd.SilenceErrors = true
	return errProgramsDiffer
}
