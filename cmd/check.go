package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/autobrr/mksha1/internal/display"
	"github.com/autobrr/mksha1/internal/hasher"
	"github.com/autobrr/mksha1/internal/utils"
)

var (
	checkVerbose bool
	checkQuiet   bool
	checkWorkers int
	checkFormat  string
)

var checkCmd = &cobra.Command{
	Use:   "check <checksum-file>",
	Short: "Verify files against a checksum list",
	Long: `Reads SHA-1 checksums from the given file, as written by "mksha1 hash" or sha1sum
(GNU or BSD layout), hashes the listed files and reports mismatches and missing files.
Use "-" to read the list from standard input.`,
	Args:                       cobra.ExactArgs(1),
	RunE:                       runCheck,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	checkCmd.Flags().SortFlags = false
	checkCmd.Flags().BoolP("help", "h", false, "help for check")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "show a table of every checked file")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "reduced output mode (prints only failures)")
	checkCmd.Flags().IntVarP(&checkWorkers, "workers", "w", 0, "number of files hashed in parallel (automatic if not specified)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "report format: text or json")
	checkCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} <checksum-file> [flags]

Arguments:
  checksum-file   Path to the checksum list, or - for standard input

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`)
}

func runCheck(cmd *cobra.Command, args []string) error {
	listPath := args[0]

	if checkFormat != "text" && checkFormat != formatJSON {
		return fmt.Errorf("unknown report format %q (use text or json)", checkFormat)
	}

	start := time.Now()

	var list *hasher.ChecksumList
	var err error
	if listPath == hasher.StdinPath {
		list, err = hasher.ParseChecksums(os.Stdin)
	} else {
		list, err = hasher.LoadChecksums(listPath)
	}
	if err != nil {
		return fmt.Errorf("invalid checksum list %q: %w", listPath, err)
	}

	var displayer display.Displayer = display.NewDisplay(display.NewFormatter(checkVerbose))
	displayer.SetQuiet(checkQuiet || checkFormat == formatJSON)

	if !checkQuiet && checkFormat != formatJSON {
		displayer.ShowMessage(fmt.Sprintf("Verifying %d files listed in %s", len(list.Paths()), listPath))
	}
	if list.Malformed > 0 {
		displayer.ShowWarning(fmt.Sprintf("%s: %d lines are improperly formatted", listPath, list.Malformed))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	h := hasher.New(hasher.Options{Workers: checkWorkers}, displayer)
	result, err := h.Verify(ctx, list)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if checkFormat == formatJSON {
		data, err := utils.MarshalJSONIndent(result, "  ")
		if err != nil {
			return fmt.Errorf("could not encode result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
	} else {
		displayer.ShowVerificationResult(result, time.Since(start))
	}

	if !result.Passed() {
		return fmt.Errorf("verification failed: %d mismatched, %d missing", len(result.Failed), len(result.Missing))
	}
	return nil
}
