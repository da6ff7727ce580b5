// Command embedder appends resources to an executable that imports embres.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maja42/embres/embedding"
	"github.com/spf13/cobra"
)

// CommandLine holds the flags of the embedder.
type CommandLine struct {
	Executable     string
	AttachmentList string
	Dir            string
	Prefix         string
	Out            string
	Verbose        bool
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var cl CommandLine
	cmd := &cobra.Command{
		Use:   "embedder",
		Short: "Append resources to an executable",
		Long: `embedder appends resources to an executable importing github.com/maja42/embres.
The executable lists and opens them at runtime via embres.Open.

Resources come from an attachment list (YAML or JSON, mapping resource names to file paths)
and/or from a directory, whose files are named <prefix>.<dir>.<file>.<ext>.`,
		Example: `  embedder --exe app --attachments attachments.yaml --out app-bundled
  embedder --exe app --dir assets --prefix App --out app-bundled`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cl.Verbose {
				logger.SetLevel(log.DebugLevel)
			}
			return run(cl, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cl.Executable, "exe", "", "target executable that should be modified (windows or linux)")
	flags.StringVar(&cl.AttachmentList, "attachments", "", "path to a YAML or JSON file mapping resource names to files")
	flags.StringVar(&cl.Dir, "dir", "", "directory whose files are attached")
	flags.StringVar(&cl.Prefix, "prefix", "", "resource name prefix for files attached via --dir")
	flags.StringVar(&cl.Out, "out", "", "path for the resulting executable (must not exist)")
	flags.BoolVarP(&cl.Verbose, "verbose", "v", false, "log every attachment")
	_ = cmd.MarkFlagRequired("exe")
	_ = cmd.MarkFlagRequired("out")
	cmd.MarkFlagsOneRequired("attachments", "dir")
	return cmd
}

func run(cl CommandLine, logger *log.Logger) error {
	attachments, err := collectAttachments(cl)
	if err != nil {
		return err
	}

	exe, err := os.Open(cl.Executable)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	defer exe.Close()

	logger.Info("Augmenting executable", "exe", cl.Executable, "out", cl.Out, "attachments", len(attachments))

	out, err := os.OpenFile(cl.Out, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0755)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	if err := embedding.EmbedFiles(out, exe, attachments, logger.Debugf); err != nil {
		_ = out.Close()
		_ = os.Remove(cl.Out)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info("Finished", "out", cl.Out)
	return nil
}

// collectAttachments merges the attachment list with the files of the attached directory.
func collectAttachments(cl CommandLine) (AttachmentList, error) {
	attachments := make(AttachmentList)
	if cl.AttachmentList != "" {
		list, err := LoadAttachmentList(cl.AttachmentList)
		if err != nil {
			return nil, err
		}
		for name, path := range list {
			attachments[name] = path
		}
	}
	if cl.Dir != "" {
		dir, err := embedding.DirAttachments(cl.Prefix, cl.Dir)
		if err != nil {
			return nil, fmt.Errorf("attach directory %q: %w", cl.Dir, err)
		}
		for name, path := range dir {
			if prev, ok := attachments[name]; ok {
				return nil, fmt.Errorf("resource %q is attached twice (%q and %q)", name, prev, path)
			}
			attachments[name] = path
		}
	}
	if len(attachments) == 0 {
		return nil, newExitError(exitUsage, "nothing to attach")
	}
	return attachments, nil
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "embedder",
	})
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error(err)
		os.Exit(exitCode(err))
	}
}
