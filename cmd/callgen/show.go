package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"callgen/internal/progfile"
	"callgen/internal/progfmt"
	"callgen/internal/target"
	"callgen/internal/version"
)

var showCmd = &cobra.Command{
	Use:   "show <file" + progfile.Ext + ">",
	Short: "Render a stored program",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().String("target", "", "target description (default: the one recorded in the file)")
	showCmd.Flags().Int("width", 0, "max display width of string literals (0=unlimited)")
	showCmd.Flags().String("format", string(formatText), "output format (text|json)")
}

func runShow(cmd *cobra.Command, args []string) (err error) {
	if _, err = setupColor(cmd); err != nil {
		return err
	}
	rec, err := progfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readOutputFormat(formatFlag)
	if err != nil {
		return err
	}
	switch format {
	case formatJSON:
		return progfile.WriteJSON(cmd.OutOrStdout(), rec)
	case formatMsgpack:
		return fmt.Errorf("show cannot print %s", formatMsgpack)
	}

	targetPath, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	if targetPath == "" {
		targetPath = rec.Target
	}
	tgt, err := target.LoadFile(targetPath)
	if err != nil {
		return err
	}
	if digest, derr := progfile.DigestFile(targetPath); derr == nil && !rec.Digest.IsZero() && digest != rec.Digest {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s changed since %s was generated\n",
			color.YellowString("warning:"), targetPath, args[0])
	}

	if rec.Tool != "" {
		if ok, verr := version.Compatible(rec.Tool); verr == nil && !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s was generated by callgen %s; regenerating it may differ\n",
				color.YellowString("warning:"), args[0], rec.Tool)
		}
	}

	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# seed %d, program %d\n", rec.Seed, rec.Index)
	return progfmt.Printer{Cat: tgt.Catalog, MaxStr: width}.Fprint(out, rec.Prog)
}
