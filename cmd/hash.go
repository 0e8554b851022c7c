package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/autobrr/mksha1/internal/convert"
	"github.com/autobrr/mksha1/internal/display"
	"github.com/autobrr/mksha1/internal/hasher"
	"github.com/autobrr/mksha1/internal/preset"
	"github.com/autobrr/mksha1/internal/sha1"
	"github.com/autobrr/mksha1/internal/types"
	"github.com/autobrr/mksha1/internal/utils"
)

// hashOptions encapsulates all command-line flag values for the hash command
type hashOptions struct {
	text       string
	format     string
	outputPath string
	presetName string
	presetFile string
	chunkSize  string
	readahead  string
	include    []string
	exclude    []string
	workers    int
	verbose    bool
	quiet      bool
}

var hashOpts = hashOptions{
	format:    formatHex,
	chunkSize: "64KiB",
}

var hashCmd = &cobra.Command{
	Use:   "hash [path...]",
	Short: "Compute SHA-1 checksums",
	Long: `Compute the SHA-1 checksum of files, directories, standard input or a text.
Directories are walked recursively. Without a path, or with "-", standard input is hashed.
Hex output is compatible with sha1sum and can be verified with the check command.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("text") && len(args) > 0 {
			return fmt.Errorf("cannot hash paths and --text at the same time")
		}
		return nil
	},
	RunE:                       runHash,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	hashCmd.Flags().SortFlags = false
	hashCmd.Flags().BoolP("help", "h", false, "help for hash")
	if err := hashCmd.Flags().MarkHidden("help"); err != nil {
		// This is initialization code, so we should panic
		panic(fmt.Errorf("failed to mark help flag as hidden: %w", err))
	}

	hashCmd.Flags().StringVarP(&hashOpts.text, "text", "t", "", "hash this text instead of files (each character is taken as one byte)")
	hashCmd.Flags().StringVarP(&hashOpts.format, "format", "f", formatHex, "output format: hex, base64, raw or json")
	hashCmd.Flags().StringVarP(&hashOpts.outputPath, "output", "o", "", "write checksums to this file (default: stdout)")
	hashCmd.Flags().StringVarP(&hashOpts.presetName, "preset", "P", "", "use preset from config")
	hashCmd.Flags().StringVar(&hashOpts.presetFile, "preset-file", "", "preset config file (default ~/.config/mksha1/presets.yaml)")
	hashCmd.Flags().IntVarP(&hashOpts.workers, "workers", "w", 0, "number of files hashed in parallel (automatic if not specified)")
	hashCmd.Flags().StringVarP(&hashOpts.chunkSize, "chunk-size", "c", "64KiB", "read size used to feed the digest")
	hashCmd.Flags().StringVar(&hashOpts.readahead, "readahead", "", "read files ahead through a buffer of this size (e.g. 4MiB)")
	hashCmd.Flags().StringArrayVarP(&hashOpts.exclude, "exclude", "", nil, "exclude files matching these patterns (e.g., \"*.nfo,*.jpg\" or --exclude \"*.nfo\" --exclude \"*.jpg\")")
	hashCmd.Flags().StringArrayVarP(&hashOpts.include, "include", "", nil, "include only files matching these patterns (e.g., \"*.mkv,*.mp4\" or --include \"*.mkv\" --include \"*.mp4\")")
	hashCmd.Flags().BoolVarP(&hashOpts.verbose, "verbose", "v", false, "be verbose")
	hashCmd.Flags().BoolVarP(&hashOpts.quiet, "quiet", "q", false, "reduced output mode (prints only checksums and errors)")

	hashCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} [path...] [flags]

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`)
}

// buildHashOptions merges the flags with the selected preset. Flags given
// on the command line win over preset values.
func buildHashOptions(cmd *cobra.Command, args []string) (*types.HashOptions, error) {
	if hashOpts.presetName != "" {
		if err := applyPreset(cmd); err != nil {
			return nil, err
		}
	}

	if err := validFormat(hashOpts.format); err != nil {
		return nil, err
	}

	chunkSize, err := utils.ParseSize(hashOpts.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk size: %w", err)
	}

	var readahead int
	if hashOpts.readahead != "" && hashOpts.readahead != "0" {
		if readahead, err = utils.ParseSize(hashOpts.readahead); err != nil {
			return nil, fmt.Errorf("invalid readahead size: %w", err)
		}
	}

	if hashOpts.workers < 0 {
		return nil, fmt.Errorf("workers must not be negative")
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{hasher.StdinPath}
	}

	opts := &types.HashOptions{
		Paths:     paths,
		Format:    hashOpts.format,
		Workers:   hashOpts.workers,
		ChunkSize: chunkSize,
		Readahead: readahead,
		Include:   hashOpts.include,
		Exclude:   hashOpts.exclude,
		Verbose:   hashOpts.verbose,
		Quiet:     hashOpts.quiet,
	}
	if cmd.Flags().Changed("text") {
		text := hashOpts.text
		opts.Text = &text
	}
	return opts, nil
}

func applyPreset(cmd *cobra.Command) error {
	presetPath, err := preset.FindPresetFile(hashOpts.presetFile)
	if err != nil {
		return fmt.Errorf("could not find preset file: %w", err)
	}

	cfg, err := preset.Load(presetPath)
	if err != nil {
		return fmt.Errorf("could not load presets: %w", err)
	}
	if err := cfg.CheckVersion(version); err != nil {
		return err
	}

	p, err := cfg.GetPreset(hashOpts.presetName)
	if err != nil {
		return fmt.Errorf("could not get preset: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("format") && p.Format != "" {
		hashOpts.format = p.Format
	}
	if !flags.Changed("workers") && p.Workers != 0 {
		hashOpts.workers = p.Workers
	}
	if !flags.Changed("chunk-size") && p.ChunkSize != "" {
		hashOpts.chunkSize = p.ChunkSize
	}
	if !flags.Changed("readahead") && p.Readahead != "" {
		hashOpts.readahead = p.Readahead
	}
	if !flags.Changed("include") && len(p.Include) > 0 {
		hashOpts.include = p.Include
	}
	if !flags.Changed("exclude") && len(p.Exclude) > 0 {
		hashOpts.exclude = p.Exclude
	}
	if !flags.Changed("quiet") && p.Quiet != nil {
		hashOpts.quiet = *p.Quiet
	}
	if !flags.Changed("verbose") && p.Verbose != nil {
		hashOpts.verbose = *p.Verbose
	}
	return nil
}

func runHash(cmd *cobra.Command, args []string) error {
	opts, err := buildHashOptions(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()

	var displayer display.Displayer = display.NewDisplay(display.NewFormatter(opts.Verbose))
	displayer.SetQuiet(opts.Quiet)

	var results []types.FileResult
	if opts.Text != nil {
		res, err := hashText(*opts.Text)
		if err != nil {
			return err
		}
		results = []types.FileResult{res}
	} else {
		files, err := hasher.CollectFiles(opts.Paths, opts.Include, opts.Exclude)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files to hash")
		}

		h := hasher.New(hasher.Options{
			Workers:   opts.Workers,
			ChunkSize: opts.ChunkSize,
			Readahead: opts.Readahead,
		}, displayer)
		displayer.ShowFiles(files, h.Workers(files))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		results, err = h.HashFiles(ctx, files)
		if err != nil {
			return fmt.Errorf("hashing interrupted: %w", err)
		}
	}

	out, err := openOutput(hashOpts.outputPath)
	if err != nil {
		return err
	}
	if err := writeResults(out, results, opts.Format); err != nil {
		out.Close()
		return fmt.Errorf("could not write checksums: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("could not write checksums: %w", err)
	}

	if opts.Text == nil {
		displayer.ShowResults(results, time.Since(start))
	}

	var failed int
	for _, r := range results {
		if !r.Success() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be hashed", failed, len(results))
	}
	return nil
}

// hashText digests a single text argument with the streaming digest.
func hashText(text string) (types.FileResult, error) {
	data := convert.BytesFromText(text)
	res := types.FileResult{Path: hasher.StdinPath, Size: int64(len(data))}

	out, err := sha1.New().Hash(sha1.Bytes(data), sha1.Options{Binary: true})
	if err != nil {
		return res, fmt.Errorf("could not hash text: %w", err)
	}
	return res.Finish(types.SumFromBytes([]byte(out)), nil), nil
}
