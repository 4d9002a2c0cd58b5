package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"stubconv/internal/adapter/fs"
)

var checkList bool

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate stub files without writing output",
	Long: `Run the full conversion over the stub files in memory and report the
first malformed file with its line number. Nothing is written and the block
cache is not touched.

Examples:
  stubconv check ./stubs          # Validate all stubs
  stubconv check ./stubs --list   # Also list what each file declares`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkList, "list", false, "list the class declared by each file")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, err := sourceDir(args)
	if err != nil {
		return err
	}

	var sink fs.BufferSink
	result, err := newConvertUseCase(GetConfig(), nil).Convert(cmd.Context(), path, &sink, nil)
	if err != nil {
		return reportFailure(cmd.ErrOrStderr(), result, err)
	}

	if checkList {
		for _, f := range result.Files {
			class := f.ClassName
			if f.Extends != "" {
				class += " extends " + f.Extends
			}
			fmt.Printf("  %-40s %s (%d methods, %d variables)\n", f.RelPath, class, f.Methods, f.Variables)
		}
		fmt.Println()
	}

	fmt.Printf("%d file(s) OK: %d classes, %d methods, %d variables (%d bytes of declarations)\n",
		len(result.Files), result.Stats.Classes, result.Stats.Methods, result.Stats.Variables, sink.Len())
	return nil
}
