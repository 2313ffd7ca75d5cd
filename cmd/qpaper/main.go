// Package main is the qpaper CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/qpaper/internal/cli"
	"github.com/hyperjump/qpaper/internal/composer"
	"github.com/hyperjump/qpaper/internal/config"
	"github.com/hyperjump/qpaper/internal/extract"
	"github.com/hyperjump/qpaper/internal/generate"
	"github.com/hyperjump/qpaper/internal/keyword"
	"github.com/hyperjump/qpaper/internal/models"
	"github.com/hyperjump/qpaper/internal/paper"
	"github.com/hyperjump/qpaper/internal/render"
	"github.com/hyperjump/qpaper/internal/server"
	"github.com/hyperjump/qpaper/internal/storage"
	"github.com/hyperjump/qpaper/internal/watcher"
	"github.com/hyperjump/qpaper/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/qpaper/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// errUsage is returned after a command has printed its own usage.
var errUsage = errors.New("invalid arguments")

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config yields the built-in defaults.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

type command func(args []string, stdout io.Writer) error

var commands = map[string]command{
	"server":   runServer,
	"generate": runGenerate,
	"assemble": runAssemble,
	"run":      runJobs,
	"list":     runList,
	"show":     runShow,
	"render":   runRender,
	"search":   runSearch,
	"delete":   runDelete,
	"reindex":  runReindex,
	"status":   runStatus,
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}
	name := os.Args[1]
	switch name {
	case "version", "--version", "-v":
		fmt.Printf("qpaper version %s\n", version)
		return
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Printf("Unknown command: %s\n", name)
		printUsage(os.Stdout)
		os.Exit(1)
	}
	if err := cmd(os.Args[2:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
		}
		os.Exit(1)
	}
}

// components holds initialized services.
type components struct {
	store    storage.Storage
	index    keyword.QuestionIndex
	composer *composer.Composer
}

func (c *components) Close() {
	if c.store != nil {
		_ = c.store.Close()
	}
	if c.index != nil {
		_ = c.index.Close()
	}
}

// newGenerator returns the Gemini client, or nil when no credential is
// configured. Generation then fails with a configuration error while every
// other command keeps working.
func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) generate.TextGenerator {
	key := cfg.Generation.ResolveAPIKey()
	if key == "" {
		logger.Debug("no generation credential", zap.String("env", cfg.Generation.APIKeyEnv))
		return nil
	}
	client, err := generate.NewGeminiClient(ctx, key, cfg.Generation.Model)
	if err != nil {
		logger.Warn("generation client unavailable", zap.Error(err))
		return nil
	}
	return client
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	idx, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize question index: %w", err)
	}

	svc := generate.NewService(newGenerator(ctx, cfg, logger),
		generate.WithLogger(logger),
		generate.WithTimeout(cfg.Generation.Timeout),
	)
	c := composer.New(store, svc,
		composer.WithLogger(logger),
		composer.WithInstitute(cfg.Institute),
		composer.WithOutputDir(cfg.Storage.OutputDir),
		composer.WithQuestionIndex(idx),
		composer.WithReader(extract.NewReader()),
	)
	return &components{store: store, index: idx, composer: c}, nil
}

// openLocal loads config and opens the archive for a one-shot command.
func openLocal(configPath string) (*components, *zap.Logger, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = utils.NewLogger(true)
	} else {
		logger, err = utils.NewQuietLogger()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	comps, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return comps, logger, nil
}

func parseFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func runServer(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (inbox events, generation timings, etc.)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("model", cfg.Generation.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	var inbox server.InboxService
	if len(cfg.Watch.Directories) > 0 {
		c := comps.composer
		jobs := watcher.NewInbox(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			func(path string) {
				if _, err := c.ProcessJobFile(ctx, path); err != nil {
					logger.Warn("job failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				if err := c.WithdrawJobFile(ctx, path); err != nil {
					logger.Warn("job withdrawal failed", zap.String("path", path), zap.Error(err))
				}
			},
			watcher.WithLogger(logger),
			watcher.WithRecursive(cfg.Watch.RecursiveOrDefault()),
		)
		if err := jobs.Start(ctx); err != nil {
			return fmt.Errorf("start job inbox: %w", err)
		}
		defer jobs.Stop()
		inbox = jobs
	}

	srv := server.NewServer(comps.composer, &cfg.Server, inbox, logger)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

// splitTopics parses a comma-separated topic list.
func splitTopics(s string) []string {
	var topics []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// readOptional reads path with r, or returns "" when path is empty.
func readOptional(r *extract.Reader, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return r.ReadFile(path)
}

// headerFlags registers the paper header flags shared by generate and assemble.
func headerFlags(fs *flag.FlagSet, p *paper.Parameters) {
	fs.StringVar(&p.Subject, "subject", "", "subject name")
	fs.StringVar(&p.CourseCode, "course-code", "", "course code")
	fs.StringVar(&p.Semester, "semester", "", "semester, e.g. 5th")
	fs.StringVar(&p.ExamType, "exam-type", models.ExamTypes[0], "exam type: "+strings.Join(models.ExamTypes, ", "))
	fs.IntVar(&p.TotalMarks, "marks", 0, "total marks")
}

// writePaper writes the archived paper id as .docx to out, or a text preview
// to stdout when preview is set.
func writePaper(ctx context.Context, c *composer.Composer, id, out string, preview bool, stdout io.Writer) error {
	if preview {
		_, doc, err := c.Document(ctx, id)
		if err != nil {
			return err
		}
		return render.Text(stdout, doc)
	}
	data, name, err := c.Render(ctx, id)
	if err != nil {
		return err
	}
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(stdout, "Paper %s written to %s\n", id, out)
	return nil
}

func runGenerate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	var hdr paper.Parameters
	headerFlags(fs, &hdr)
	topics := fs.String("topics", "", "comma-separated syllabus topics")
	topicsFile := fs.String("topics-file", "", "file with one topic per line (.txt, .md, .docx, .pdf, .xlsx)")
	instructionsFile := fs.String("instructions-file", "", "file with exam instructions")
	mcq := fs.Int("mcq", 0, "number of multiple-choice questions")
	short := fs.Int("short", 0, "number of short-answer questions")
	long := fs.Int("long", 0, "number of long-answer questions")
	difficulty := fs.String("difficulty", "", "difficulty pattern (default: balanced mix)")
	out := fs.String("out", "", "output .docx path (default: <Subject>_question_paper.docx)")
	preview := fs.Bool("preview", false, "print a text preview instead of writing .docx")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	comps, logger, err := openLocal(*configPath)
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()

	reader := extract.NewReader()
	req := &models.GenerationRequest{
		Subject:    hdr.Subject,
		CourseCode: hdr.CourseCode,
		Semester:   hdr.Semester,
		ExamType:   hdr.ExamType,
		TotalMarks: hdr.TotalMarks,
		Topics:     splitTopics(*topics),
		NumMCQ:     *mcq,
		NumShort:   *short,
		NumLong:    *long,
		Difficulty: *difficulty,
	}
	if *topicsFile != "" {
		fromFile, err := reader.ReadTopics(*topicsFile)
		if err != nil {
			return fmt.Errorf("topics file: %w", err)
		}
		req.Topics = append(req.Topics, fromFile...)
	}
	if req.Instructions, err = readOptional(reader, *instructionsFile); err != nil {
		return fmt.Errorf("instructions file: %w", err)
	}

	ctx := context.Background()
	rec, err := comps.composer.Generate(ctx, req)
	if err != nil {
		return err
	}
	return writePaper(ctx, comps.composer, rec.ID, *out, *preview, stdout)
}

func runAssemble(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	var params paper.Parameters
	headerFlags(fs, &params)
	answerKeyFile := fs.String("answer-key", "", "file with the answer key")
	instructionsFile := fs.String("instructions-file", "", "file with exam instructions")
	topics := fs.String("topics", "", "comma-separated syllabus topics (archived with the paper)")
	out := fs.String("out", "", "output .docx path (default: <Subject>_question_paper.docx)")
	preview := fs.Bool("preview", false, "print a text preview instead of writing .docx")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: qpaper assemble [flags] <question-paper-file>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	reader := extract.NewReader()
	var err error
	if params.QuestionPaper, err = reader.ReadFile(fs.Arg(0)); err != nil {
		return fmt.Errorf("question paper: %w", err)
	}
	if params.AnswerKey, err = readOptional(reader, *answerKeyFile); err != nil {
		return fmt.Errorf("answer key: %w", err)
	}
	if params.Instructions, err = readOptional(reader, *instructionsFile); err != nil {
		return fmt.Errorf("instructions file: %w", err)
	}

	comps, logger, err := openLocal(*configPath)
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()

	ctx := context.Background()
	rec, err := comps.composer.Compose(ctx, &params, splitTopics(*topics))
	if err != nil {
		return err
	}
	return writePaper(ctx, comps.composer, rec.ID, *out, *preview, stdout)
}

func runJobs(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: qpaper run [flags] <job.yaml>...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	comps, logger, err := openLocal(*configPath)
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()

	failed := 0
	for _, path := range fs.Args() {
		rec, err := comps.composer.ProcessJobFile(context.Background(), path)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "ok   %s -> %s (%d questions)\n", path, rec.ID, rec.Questions)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, fs.NArg())
	}
	return nil
}

// getJSON fetches serverURL+path and decodes the JSON body into v.
func getJSON(serverURL, path string, v interface{}) error {
	resp, err := http.Get(serverURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func runList(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "", "server URL (empty = direct storage)")
	offset := fs.Int("offset", 0, "number of papers to skip")
	limit := fs.Int("limit", 20, "number of papers to show")
	outputFormat := fs.String("output", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		return err
	}

	list := &cli.PaperList{Offset: *offset}
	if *serverURL != "" {
		q := url.Values{"offset": {strconv.Itoa(*offset)}, "limit": {strconv.Itoa(*limit)}}
		if err := getJSON(*serverURL, "/api/v1/papers?"+q.Encode(), list); err != nil {
			return err
		}
		return cli.WritePapers(stdout, list, format)
	}

	comps, logger, err := openLocal(*configPath)
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()
	if list.Papers, list.Total, err = comps.composer.List(context.Background(), *offset, *limit); err != nil {
		return err
	}
	return cli.WritePapers(stdout, list, format)
}

// idCommand parses flags for a command taking one paper ID.
func idCommand(name string, args []string, extra func(fs *flag.FlagSet)) (*flag.FlagSet, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", defaultConfigPath, "config file path")
	if extra != nil {
		extra(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: qpaper %s [flags] <paper-id>\n\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, "", errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", errUsage
	}
	return fs, fs.Arg(0), nil
}

func flagString(fs *flag.FlagSet, name string) string {
	return fs.Lookup(name).Value.String()
}

func runShow(args []string, stdout io.Writer) error {
	fs, id, err := idCommand("show", args, func(fs *flag.FlagSet) {
		fs.String("output", "text", "output format: text or json")
	})
	if err != nil {
		return err
	}
	format, err := parseFormat(flagString(fs, "output"))
	if err != nil {
		return err
	}
	comps, logger, err := openLocal(flagString(fs, "config"))
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()
	rec, err := comps.composer.Get(context.Background(), id)
	if err != nil {
		return err
	}
	return cli.WritePaper(stdout, rec, format)
}

func runRender(args []string, stdout io.Writer) error {
	fs, id, err := idCommand("render", args, func(fs *flag.FlagSet) {
		fs.String("out", "", "output .docx path (default: <Subject>_question_paper.docx)")
		fs.Bool("preview", false, "print a text preview instead of writing .docx")
	})
	if err != nil {
		return err
	}
	comps, logger, err := openLocal(flagString(fs, "config"))
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()
	preview := flagString(fs, "preview") == "true"
	return writePaper(context.Background(), comps.composer, id, flagString(fs, "out"), preview, stdout)
}

func runDelete(args []string, stdout io.Writer) error {
	fs, id, err := idCommand("delete", args, nil)
	if err != nil {
		return err
	}
	comps, logger, err := openLocal(flagString(fs, "config"))
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()
	if err := comps.composer.Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Paper deleted: %s\n", id)
	return nil
}

func runReindex(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("reindex", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	comps, logger, err := openLocal(*configPath)
	if err != nil {
		return err
	}
	defer comps.Close()
	defer logger.Sync()
	n, err := comps.composer.Reindex(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Reindexed %d questions\n", n)
	return nil
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: qpaper search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Searches the question bank built from every archived paper.
  • Use --subject to restrict hits to one subject (exact match).
  • Use --fuzzy for typo tolerance. An exact search with no hits is retried fuzzy.

Examples:
  qpaper search binary search tree
  qpaper search --subject "Data Structures" traversal
  qpaper search --fuzzy dijkstar
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 10, "number of results")
	subject := fs.String("subject", "", "only questions from papers on this subject")
	fuzzy := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	if err := fs.Parse(searchArgsReorder(args)); err != nil {
		return errUsage
	}
	query := buildSearchQuery(fs.Args())
	if query == "" {
		printSearchUsage(fs)
		return errUsage
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		return err
	}

	var search func(fuzzy bool) ([]*keyword.Hit, error)
	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids Bleve/SQLite lock conflict).
		search = func(fuzzy bool) ([]*keyword.Hit, error) {
			q := url.Values{"q": {query}, "limit": {strconv.Itoa(*limit)}}
			if *subject != "" {
				q.Set("subject", *subject)
			}
			if fuzzy {
				q.Set("fuzzy", "true")
			}
			var res cli.QuestionHits
			if err := getJSON(*serverURL, "/api/v1/questions?"+q.Encode(), &res); err != nil {
				return nil, err
			}
			return res.Hits, nil
		}
	} else {
		comps, logger, err := openLocal(*configPath)
		if err != nil {
			return err
		}
		defer comps.Close()
		defer logger.Sync()
		search = func(fuzzy bool) ([]*keyword.Hit, error) {
			return comps.composer.SearchQuestions(context.Background(), query, *limit,
				&keyword.SearchOptions{Subject: *subject, Fuzzy: fuzzy})
		}
	}

	hits, err := search(*fuzzy)
	if err != nil {
		return err
	}
	// Auto-retry with fuzzy if no results and fuzzy not already enabled
	if len(hits) == 0 && !*fuzzy {
		if fuzzyHits, fuzzyErr := search(true); fuzzyErr == nil && len(fuzzyHits) > 0 {
			hits = fuzzyHits
		}
	}
	return cli.WriteQuestionHits(stdout, &cli.QuestionHits{Query: query, Hits: hits}, format)
}

func runStatus(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		return err
	}

	var st composer.Status
	if *serverURL != "" {
		if err := getJSON(*serverURL, "/api/v1/status", &st); err != nil {
			return err
		}
	} else {
		comps, logger, err := openLocal(*configPath)
		if err != nil {
			return err
		}
		defer comps.Close()
		defer logger.Sync()
		res, err := comps.composer.Status(context.Background())
		if err != nil {
			return err
		}
		st = *res
	}

	if format == cli.OutputJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	fmt.Fprintf(stdout, "papers:        %d   # archived papers\n", st.Papers)
	fmt.Fprintf(stdout, "questions:     %d   # questions in the question bank\n", st.Questions)
	fmt.Fprintf(stdout, "output_files:  %d   # rendered .docx files\n", st.Output.Files)
	fmt.Fprintf(stdout, "output_bytes:  %d\n", st.Output.Bytes)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `qpaper - Exam question paper generator and formatter

Usage:
  qpaper server [flags]                  Start the HTTP server and job inbox
  qpaper generate [flags]                Generate a paper and write it as .docx
  qpaper assemble [flags] <file>         Format a supplied question paper as .docx
  qpaper run [flags] <job.yaml>...       Process job files once
  qpaper list [flags]                    List archived papers
  qpaper show [flags] <id>               Show one archived paper
  qpaper render [flags] <id>             Re-render an archived paper
  qpaper search [flags] <query>          Search the question bank
  qpaper delete [flags] <id>             Delete an archived paper
  qpaper reindex [flags]                 Rebuild the question bank from the archive
  qpaper status [flags]                  Show archive and question bank status
  qpaper version                         Show version
  qpaper help                            Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/qpaper/config.yaml,
                     or ./config.yaml when present)

Server Flags:
  --debug            Enable debug logging

Generate Flags:
  --subject, --course-code, --semester, --exam-type, --marks   Header fields
  --topics string             Comma-separated topics
  --topics-file string        One topic per line (.txt, .md, .docx, .pdf, .xlsx)
  --mcq, --short, --long int  Question counts (at least one must be non-zero)
  --difficulty string         Difficulty pattern
  --out string                Output .docx path
  --preview                   Print a text preview instead

Search, List and Status Flags:
  --server string    Server URL. Search and status default to http://localhost:8080;
                     use --server "" for direct storage when the server is not running.
  --output string    Output format: text or json (default: text)

Examples:
  qpaper server
  qpaper generate --subject "Data Structures" --course-code CS301 --semester 3rd \
      --exam-type Mid-Semester --marks 30 --topics "Stacks,Queues,Trees" --short 5 --long 2
  qpaper assemble --subject "Computer Networks" --marks 100 --answer-key key.docx paper.docx
  qpaper run jobs/networks-endsem.yaml
  qpaper list --output json
  qpaper search --fuzzy dijkstar`)
}
