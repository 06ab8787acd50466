package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/audiblez/audiblez/internal/cache"
	"github.com/audiblez/audiblez/internal/convert"
	"github.com/audiblez/audiblez/internal/ebook"
	"github.com/audiblez/audiblez/internal/settings"
	"github.com/audiblez/audiblez/internal/tts"
	"github.com/audiblez/audiblez/internal/tts/engines"
	"github.com/audiblez/audiblez/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string

	voiceFlag   string
	speedFlag   float64
	engineFlag  string
	outputFlag  string
	pickFlag    bool
	tuiFlag     bool
	keepWAVs    bool
	previewOnly bool

	rootCmd = &cobra.Command{
		Use:   "audiblez [EBOOK]",
		Short: "Turn an e-book into an audiobook",
		Long: paragraph(fmt.Sprintf(
			"Render an %s or %s file into a chaptered %s audiobook, narrated offline by the Kokoro neural voices.",
			keyword(".epub"), keyword(".md"), keyword(".m4b"),
		)),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"epub", "md", "markdown", "txt"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: execute,
	}
)

// runOptions are the fully resolved conversion parameters after flags, env,
// config file and persisted settings have been merged.
type runOptions struct {
	voice    string
	speed    float64
	device   tts.Device
	output   string
	keepWAVs bool
}

// resolveOptions merges option sources. Priority: flag, then environment and
// config file via viper, then the persisted settings from the last run.
func resolveOptions(st settings.Settings) (runOptions, error) {
	opts := runOptions{
		voice:    st.Voice,
		speed:    st.Speed,
		device:   st.Engine,
		output:   st.OutputFolder,
		keepWAVs: viper.GetBool("keep-wavs"),
	}

	if v := viper.GetString("voice"); v != "" {
		resolved, err := tts.ResolveVoice(v)
		if err != nil {
			return opts, fmt.Errorf("%w (run %s for the catalog)", err, keyword("audiblez voices"))
		}
		opts.voice = resolved
	}
	if s := viper.GetFloat64("speed"); s != 0 {
		if err := tts.ValidateSpeed(s); err != nil {
			return opts, err
		}
		opts.speed = s
	}
	if e := viper.GetString("engine"); e != "" {
		device, err := tts.ParseDevice(e)
		if err != nil {
			return opts, err
		}
		opts.device = device
	}
	if o := viper.GetString("output"); o != "" {
		opts.output = o
	}

	if device, fellBack := tts.ValidateDevice(opts.device); fellBack {
		fmt.Fprintln(os.Stderr, subtle(fmt.Sprintf("%s unavailable, falling back to %s", opts.device, device)))
		opts.device = device
	}
	return opts, nil
}

func execute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	book, err := ebook.Load(args[0])
	if err != nil {
		return err
	}

	if previewOnly {
		printChapters(os.Stdout, book)
		return nil
	}

	st := settings.LoadDefault()
	opts, err := resolveOptions(st)
	if err != nil {
		return err
	}

	if pickFlag {
		if err := pickChapters(book); err != nil {
			return err
		}
	}

	if tuiFlag {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("the interactive interface needs a terminal")
		}
		return runTUI(book, st, opts)
	}
	return runCLI(cmd.Context(), book, st, opts)
}

// runCLI converts the book without the TUI, streaming progress to stdout.
func runCLI(ctx context.Context, book *ebook.Book, st settings.Settings, opts runOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	audioCache := openCache()
	if audioCache != nil {
		defer audioCache.Close() //nolint:errcheck
	}

	engine, err := engines.NewKokoroEngine(engines.KokoroConfig{
		Voice:  opts.voice,
		Speed:  opts.speed,
		Device: opts.device,
		Cache:  audioCache,
	})
	if err != nil {
		return err
	}
	defer engine.Close() //nolint:errcheck

	p := newPrinter(os.Stdout)
	converter, err := convert.New(convert.Options{
		Engine:    engine,
		OutputDir: opts.output,
		KeepWAVs:  opts.keepWAVs,
		Events:    p.handle,
	})
	if err != nil {
		return err
	}

	if _, err := converter.Convert(ctx, book); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stdout, subtle("Interrupted. Finished chapters stay on disk; rerun to resume."))
			return nil
		}
		return err
	}

	saveSettings(st, opts)
	return nil
}

// runTUI hands the book to the interactive interface.
func runTUI(book *ebook.Book, st settings.Settings, opts runOptions) error {
	st.Voice = opts.voice
	st.Speed = opts.speed
	st.Engine = opts.device
	st.OutputFolder = opts.output

	cfg := ui.Config{
		Book:     book,
		Settings: st,
		Cache:    openCache(),
		KeepWAVs: opts.keepWAVs,
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "AUDIBLEZ_"}); err != nil {
		return err
	}

	p := ui.NewProgram(cfg)
	model, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := model.(ui.TellsErrors); ok {
		return m.FatalError()
	}
	return nil
}

// saveSettings persists the parameters of a successful run as the next run's
// defaults.
func saveSettings(st settings.Settings, opts runOptions) {
	st.Voice = opts.voice
	st.Speed = opts.speed
	st.Engine = opts.device
	st.OutputFolder = opts.output
	if err := settings.SaveDefault(st); err != nil {
		log.Warn("could not persist settings", "err", err)
	}
}

// openCache opens the synthesis cache. Failure is not fatal; conversion just
// runs uncached.
func openCache() *cache.Cache {
	c, err := cache.New(cache.Options{})
	if err != nil {
		log.Warn("audio cache unavailable", "err", err)
		return nil
	}
	return c
}

// printChapters lists the detected chapters with selection markers and text
// previews.
func printChapters(out *os.File, book *ebook.Book) {
	fmt.Fprintf(out, "%s", keyword(book.Title))
	if book.Author != "" {
		fmt.Fprintf(out, " %s", subtle("by "+book.Author))
	}
	fmt.Fprintln(out)

	for _, ch := range book.Chapters {
		marker := " "
		if ch.Selected {
			marker = "✓"
		}
		fmt.Fprintf(out, "%s %3d. %s %s\n",
			marker, ch.Index, ch.ShortName, subtle(fmt.Sprintf("(%d chars)", len(ch.Text))))
		if preview := ch.Preview(); preview != "" {
			fmt.Fprintln(out, subtle("     "+preview))
		}
	}
}

// pickChapters prompts for a chapter selection, accepting ranges like
// "1-3,5". An empty answer keeps the detected selection.
func pickChapters(book *ebook.Book) error {
	printChapters(os.Stdout, book)
	fmt.Print("Chapters to include (e.g. 1-3,5; empty keeps the current selection): ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	picked, err := parseRanges(line, len(book.Chapters))
	if err != nil {
		return err
	}
	for i := range book.Chapters {
		book.Chapters[i].Selected = picked[book.Chapters[i].Index]
	}
	return nil
}

// parseRanges expands "1-3,5" into a set of 1-based chapter indices.
func parseRanges(input string, max int) (map[int]bool, error) {
	picked := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi := part, part
		if before, after, found := strings.Cut(part, "-"); found {
			lo, hi = strings.TrimSpace(before), strings.TrimSpace(after)
		}
		from, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bad chapter range %q", part)
		}
		to, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bad chapter range %q", part)
		}
		if from > to || from < 1 || to > max {
			return nil, fmt.Errorf("chapter range %q out of bounds (1-%d)", part, max)
		}
		for i := from; i <= to; i++ {
			picked[i] = true
		}
	}
	if len(picked) == 0 {
		return nil, errors.New("no chapters picked")
	}
	return picked, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version

	rootCmd.Flags().StringVarP(&voiceFlag, "voice", "v", "", "narration voice (see audiblez voices)")
	rootCmd.Flags().Float64VarP(&speedFlag, "speed", "s", 0, "narration speed, 0.5-2.0")
	rootCmd.Flags().StringVarP(&engineFlag, "engine", "e", "", "compute device: cpu, cuda or apple")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output folder for the audiobook")
	rootCmd.Flags().BoolVarP(&pickFlag, "pick", "p", false, "pick chapters interactively before converting")
	rootCmd.Flags().BoolVarP(&tuiFlag, "tui", "t", false, "open the interactive interface")
	rootCmd.Flags().BoolVar(&keepWAVs, "keep-wavs", false, "keep the intermediate per-chapter WAV files")
	rootCmd.Flags().BoolVar(&previewOnly, "preview-only", false, "list detected chapters and exit")

	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("keep-wavs", rootCmd.Flags().Lookup("keep-wavs"))

	viper.SetDefault("voice", "")
	viper.SetDefault("speed", 0)
	viper.SetDefault("engine", "")
	viper.SetDefault("output", "")

	rootCmd.AddCommand(voicesCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "audiblez")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println(errorStyle.Render("Could not find the configuration directory."))
		os.Exit(1)
	}

	if c := os.Getenv("AUDIBLEZ_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("audiblez")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("audiblez")
	viper.AutomaticEnv()

	// Where `audiblez config` creates the file when none exists yet.
	configFile = filepath.Join(dirs[0], "audiblez.yml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return
		}
		log.Warn("Could not parse configuration file", "err", err)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		configFile = used
		log.Debug("Using configuration file", "path", used)
	}
}
