package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	osexec "os/exec"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/refdoc"
	refexec "github.com/fwojciec/refdoc/exec"
	"github.com/fwojciec/refdoc/fs"
	"github.com/fwojciec/refdoc/gemini"
	"github.com/fwojciec/refdoc/index"
	"github.com/fwojciec/refdoc/optimize"
	refslog "github.com/fwojciec/refdoc/slog"
	"github.com/fwojciec/refdoc/sqlite"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Response cache directory. Set before calling Run().
	CacheDir string

	// Baseline model retried once after the requested model fails.
	Baseline string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CacheDir: defaultCacheDir(),
		Baseline: defaultBaseline(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		LookPath: osexec.LookPath,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("refdoc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'refdoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Wire command-specific dependencies based on command
	if cmd == "optimize" {
		runner := refslog.NewLoggingRunner(refexec.NewRunner(), logger)
		deps.Optimizer = refslog.NewLoggingOptimizer(&optimize.Optimizer{
			Runner:   runner,
			Cache:    fs.NewCache(m.CacheDir, refdoc.DefaultCacheTTL),
			Baseline: m.Baseline,
			Limiter:  rate.NewLimiter(rate.Limit(1), 1),
		}, logger)
	}

	if cmd == "index" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		queue := index.NewQueue(&index.Builder{
			Embedder: gemini.NewEmbedder(client, ""),
			Store:    sqlite.NewIndexStore(),
		})
		defer queue.Shutdown(ctx)
		deps.Queue = queue
	}

	return kongCtx.Run(deps)
}

func defaultCacheDir() string {
	if dir := os.Getenv("REFDOC_CACHE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".refdoc-cache"
	}
	return filepath.Join(home, ".refdoc", "cache")
}

func defaultBaseline() string {
	if model := os.Getenv("REFDOC_BASELINE_MODEL"); model != "" {
		return model
	}
	return refdoc.DefaultBaselineModel
}
