package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/arnodel/fieldstream/extract"
	"github.com/arnodel/fieldstream/fragment"
	"github.com/arnodel/fieldstream/internal/config"
	"github.com/arnodel/fieldstream/llmstream"
)

// Exit status when the input ended without the field being completed
const exitFieldNotFound = 2

var errFieldNotFound = errors.New("field not found")

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling at the bottom of main).
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
		}
	}()

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg := config.Default()
	var configPath string
	var colorizer *Colorizer

	flag.Usage = printUsage

	flag.StringVar(&cfg.Field, "field", "", "name of the field to extract")
	flag.StringVar(&cfg.Type, "type", config.DefaultType, "type of the field: string, integer, boolean")
	flag.BoolVar(&cfg.NonBlocking, "nonblocking", false, "stop reading input as soon as the field is complete")
	flag.IntVar(&cfg.ChunkSize, "chunk", config.DefaultChunkSize, "maximum size of fragments read from stdin")
	flag.StringVar(&cfg.Color, "color", config.DefaultColor, "colorize output: auto, always, never")
	flag.BoolVar(&cfg.PrintValue, "value", false, "print the typed value on a last line")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose logging")
	flag.StringVar(&cfg.Prompt, "prompt", "", "ask a chat model this prompt and read its answer instead of stdin")
	flag.StringVar(&cfg.System, "system", "", "system message sent with -prompt")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (env LLM_BASE_URL)")
	flag.StringVar(&cfg.LLMModel, "llm.model", "", "model name (env LLM_MODEL)")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key (env LLM_API_KEY)")
	flag.StringVar(&configPath, "config", "", "YAML or JSON configuration file")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		cfg.SetExplicit(f.Name)
	})

	// A single positional argument is the field name
	if cfg.Field == "" && flag.NArg() == 1 {
		cfg.Field = flag.Arg(0)
	} else if flag.NArg() > 0 {
		fatalError("unexpected arguments: %q\n", flag.Args())
	}

	config.ApplyEnv(&cfg, os.Getenv)
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			fatalError("error loading config: %s\n", err)
		}
		config.ApplyFile(&cfg, fc)
	}
	if err := cfg.Validate(); err != nil {
		fatalError("invalid configuration:\n%s\n", err)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	switch cfg.Color {
	case "always":
		colorizer = &defaultColorizer
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			colorizer = &defaultColorizer
		}
	}

	// Set up stdout for handling colors
	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx)

	a := &app{
		cfg:       cfg,
		stdin:     os.Stdin,
		stdout:    stdout,
		colorizer: colorizer,
		logger:    logger,
	}
	err := a.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, syscall.EPIPE):
		// stdout is a pipe and something closed it (e.g. 'head' or 'less').
		// In this case we don't want to complain.
	case errors.Is(err, errFieldNotFound):
		logger.Warn().Str("field", cfg.Field).Msg("input ended before the field was complete")
		stop()
		os.Exit(exitFieldNotFound)
	default:
		stop()
		fatalError("error: %s\n", err)
	}
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg, args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `jf - stream one field out of a JSON object

USAGE:
  jf [options] FIELD < input.json
  jf [options] -prompt PROMPT FIELD

DESCRIPTION:
  jf prints the value of FIELD as soon as it is received, without waiting for
  the rest of the document.  It is meant for JSON produced progressively, for
  example the answer of a chat model asked to reply in JSON.

  The field must be a string, an unsigned integer or a boolean.  String values
  are printed as they appear in the document, escape sequences included.

EXAMPLES:
  Follow a field of a slowly produced document:
    producer | jf -type string summary

  Ask a model and print its answer as it is generated:
    jf -llm.model gpt-4o-mini -prompt 'Describe Barcelona in JSON with a "summary" field' summary

  Stop reading as soon as the field is known and print its value:
    jf -type integer -nonblocking -value count < big.json

EXIT STATUS:
  0  the field was extracted
  1  an error occurred
  2  the input ended before the field was complete

OPTIONS:
`)
	flag.PrintDefaults()
}

type app struct {
	cfg       config.Config
	stdin     io.Reader
	stdout    io.Writer
	colorizer *Colorizer
	logger    zerolog.Logger

	// If nil, a client is built from the configuration
	client llmstream.Streamer
}

func (a *app) run(ctx context.Context) error {
	kind, err := a.cfg.Kind()
	if err != nil {
		return err
	}
	opts := []extract.Option{
		extract.WithBlocking(!a.cfg.NonBlocking),
		extract.WithLogger(a.logger),
	}
	switch kind {
	case extract.Boolean:
		ex, err := extract.NewBoolean(a.cfg.Field, opts...)
		if err != nil {
			return err
		}
		return runExtractor(ctx, a, ex)
	case extract.Integer:
		ex, err := extract.NewInteger(a.cfg.Field, opts...)
		if err != nil {
			return err
		}
		return runExtractor(ctx, a, ex)
	default:
		ex, err := extract.NewString(a.cfg.Field, opts...)
		if err != nil {
			return err
		}
		return runExtractor(ctx, a, ex)
	}
}

func runExtractor[V any](ctx context.Context, a *app, ex *extract.Extractor[V]) error {
	var err error
	if a.cfg.Prompt != "" {
		client := a.client
		if client == nil {
			client = llmstream.NewClient(a.cfg.LLMBaseURL, a.cfg.LLMAPIKey)
		}
		var src *llmstream.Source
		src, err = llmstream.Open(ctx, client, llmstream.JSONRequest(a.cfg.LLMModel, a.cfg.System, a.cfg.Prompt))
		if err != nil {
			return err
		}
		defer src.Close()
		err = printStream(a, extract.NewStream[openai.ChatCompletionStreamResponse](ex, src, llmstream.DeltaContent))
	} else {
		src := fragment.NewReaderSource(a.stdin, a.cfg.ChunkSize)
		err = printStream(a, ex.Extract(src))
	}
	if err != nil {
		return err
	}

	value, ok := ex.Value()
	if !ok {
		return errFieldNotFound
	}
	if a.cfg.PrintValue {
		if err := a.colorizer.PrintValue(a.stdout, ex.Field().Kind, fmt.Sprint(value)); err != nil {
			return err
		}
		_, err = io.WriteString(a.stdout, "\n")
	}
	return err
}

// printStream writes the content of s to stdout as it arrives and ends it with
// a new line.
func printStream[T, V any](a *app, s *extract.Stream[T, V]) error {
	written := false
	for content, err := range s.All() {
		if err != nil {
			return err
		}
		if err := a.colorizer.PrintContent(a.stdout, content); err != nil {
			return err
		}
		written = true
	}
	if written {
		_, err := io.WriteString(a.stdout, "\n")
		return err
	}
	return nil
}
