package display

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/markkurossi/tabulate"
	progressbar "github.com/schollz/progressbar/v3"

	"github.com/autobrr/mksha1/internal/types"
)

type Display struct {
	formatter *Formatter
	bar       *progressbar.ProgressBar
	out       io.Writer
	quiet     bool
}

// Ensure Display implements all required interfaces
var _ Displayer = (*Display)(nil)

// NewDisplay returns a Display writing to standard error, keeping standard
// output free for checksum lines.
func NewDisplay(formatter *Formatter) *Display {
	return &Display{
		formatter: formatter,
		out:       os.Stderr,
	}
}

// NewDisplayTo returns a Display writing to w.
func NewDisplayTo(formatter *Formatter, w io.Writer) *Display {
	return &Display{
		formatter: formatter,
		out:       w,
	}
}

func (d *Display) ShowProgress(total int64) {
	if d.quiet || total == 0 {
		return
	}
	fmt.Fprintln(d.out)
	d.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(d.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]Hashing files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (d *Display) UpdateProgress(completed int64, hashrate float64) {
	if d.quiet || d.bar == nil {
		return
	}
	if err := d.bar.Set64(completed); err != nil {
		log.Printf("failed to update progress bar: %v", err)
	}

	if hashrate > 0 {
		description := fmt.Sprintf("[cyan][bold]Hashing files...[reset] [%s]", d.formatter.FormatRate(hashrate))
		d.bar.Describe(description)
	}
}

func (d *Display) FinishProgress() {
	if d.quiet || d.bar == nil {
		return
	}
	if err := d.bar.Finish(); err != nil {
		log.Printf("failed to finish progress bar: %v", err)
	}
	d.bar = nil
	fmt.Fprintln(d.out)
}

func (d *Display) ShowFiles(files []types.FileEntry, numWorkers int) {
	if d.quiet || !d.formatter.verbose {
		return
	}

	fmt.Fprintf(d.out, "\n%s %s\n", magenta("Files being hashed:"),
		label(fmt.Sprintf("(%d workers)", numWorkers)))
	for i, file := range files {
		prefix := "  ├─"
		if i == len(files)-1 {
			prefix = "  └─"
		}
		name := file.Path
		if name != "-" {
			name = filepath.Base(name)
		}
		fmt.Fprintf(d.out, "%s %s (%s)\n",
			prefix,
			success(name),
			label(d.formatter.FormatBytes(file.Length)))
	}
}

func (d *Display) SetQuiet(quiet bool) {
	d.quiet = quiet
}

var (
	magenta    = color.New(color.FgMagenta).SprintFunc()
	yellow     = color.New(color.FgYellow).SprintFunc()
	success    = color.New(color.FgGreen).SprintFunc()
	label      = color.New(color.FgCyan).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

func (d *Display) ShowMessage(msg string) {
	if d.quiet {
		return
	}
	fmt.Fprintf(d.out, "%s %s\n", success("Info:"), msg)
}

func (d *Display) ShowError(msg string) {
	fmt.Fprintln(d.out, errorColor(msg))
}

func (d *Display) ShowWarning(msg string) {
	fmt.Fprintf(d.out, "%s %s\n", yellow("Warning:"), msg)
}

func (d *Display) ShowResults(results []types.FileResult, duration time.Duration) {
	var failed, cached int
	var totalSize int64
	for _, r := range results {
		if !r.Success() {
			failed++
			d.ShowError(fmt.Sprintf("%s: %v", r.Path, r.Err))
			continue
		}
		if r.Cached {
			cached++
		}
		totalSize += r.Size
	}

	if d.quiet {
		return
	}

	fmt.Fprintf(d.out, "\n%s\n", magenta("Hashing results:"))
	fmt.Fprintf(d.out, "  %-15s %d\n", label("Files:"), len(results))
	if failed > 0 {
		fmt.Fprintf(d.out, "  %-15s %s\n", label("Failed:"), errorColor(failed))
	}
	fmt.Fprintf(d.out, "  %-15s %s\n", label("Total size:"), d.formatter.FormatBytes(totalSize))
	fmt.Fprintf(d.out, "  %-15s %s\n", label("Elapsed:"), d.formatter.FormatDuration(duration))
	if duration > 0 && totalSize > 0 {
		fmt.Fprintf(d.out, "  %-15s %s\n", label("Rate:"),
			d.formatter.FormatRate(float64(totalSize)/duration.Seconds()))
	}

	if d.formatter.verbose && len(results) > 0 {
		fmt.Fprintln(d.out)
		d.printResultTable(results)
		if cached > 0 {
			fmt.Fprintf(d.out, "%s\n", label(fmt.Sprintf("%d sums taken from cache", cached)))
		}
	}
}

func (d *Display) printResultTable(results []types.FileResult) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("File").SetAlign(tabulate.ML)
	tab.Header("Size").SetAlign(tabulate.MR)
	tab.Header("SHA1").SetAlign(tabulate.ML)

	for _, r := range results {
		row := tab.Row()
		row.Column(r.Path)
		row.Column(d.formatter.FormatBytes(r.Size))
		if r.Success() {
			row.Column(r.Sum.String())
		} else {
			row.Column("FAILED").SetFormat(tabulate.FmtBold)
		}
	}
	tab.Print(d.out)
}

func (d *Display) ShowVerificationResult(result *types.VerificationResult, duration time.Duration) {
	for _, path := range result.Failed {
		fmt.Fprintf(d.out, "%s: %s\n", path, errorColor("FAILED"))
	}
	for _, path := range result.Missing {
		fmt.Fprintf(d.out, "%s: %s\n", path, errorColor("FAILED open or read"))
	}

	if d.quiet {
		return
	}

	fmt.Fprintf(d.out, "\n%s\n", magenta("Verification results:"))
	fmt.Fprintf(d.out, "  %-15s %d\n", label("Checked:"), result.Total)
	fmt.Fprintf(d.out, "  %-15s %s\n", label("OK:"), success(result.OK))
	if n := len(result.Failed); n > 0 {
		fmt.Fprintf(d.out, "  %-15s %s\n", label("Mismatched:"), errorColor(n))
	}
	if n := len(result.Missing); n > 0 {
		fmt.Fprintf(d.out, "  %-15s %s\n", label("Missing:"), errorColor(n))
	}
	if result.Malformed > 0 {
		fmt.Fprintf(d.out, "  %-15s %s\n", label("Malformed:"), yellow(result.Malformed))
	}
	fmt.Fprintf(d.out, "  %-15s %s\n", label("Data checked:"), d.formatter.FormatBytes(result.Bytes))
	fmt.Fprintf(d.out, "  %-15s %s\n", label("Elapsed:"), d.formatter.FormatDuration(duration))

	if d.formatter.verbose && len(result.Results) > 0 {
		fmt.Fprintln(d.out)
		d.printResultTable(result.Results)
	}

	status := success("OK")
	if !result.Passed() {
		status = errorColor("FAILED")
	}
	fmt.Fprintf(d.out, "\n%s %s\n", label("Status:"), status)
}

type Formatter struct {
	verbose bool
}

func NewFormatter(verbose bool) *Formatter {
	return &Formatter{verbose: verbose}
}

func (f *Formatter) FormatBytes(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

func (f *Formatter) FormatRate(bytesPerSecond float64) string {
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

func (f *Formatter) FormatDuration(dur time.Duration) string {
	if dur < time.Second {
		return strconv.FormatInt(dur.Milliseconds(), 10) + "ms"
	}
	return fmt.Sprintf("%.2fs", dur.Seconds())
}
