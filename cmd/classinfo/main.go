package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/classreader/classfile"
	"github.com/wippyai/classreader/config"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

type runOptions struct {
	path        string
	configPath  string
	debug       bool
	interactive bool
	styled      bool
}

func main() {
	var (
		debug       = flag.Bool("d", false, "Enable debug output")
		configPath  = flag.String("config", "", "YAML file with decoder limits")
		interactive = flag.Bool("i", false, "Browse the constant pool and methods")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	opts := runOptions{
		path:        flag.Arg(0),
		configPath:  *configPath,
		debug:       *debug,
		interactive: *interactive,
		styled:      term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := run(opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read class file: %s: %v\n", opts.path, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-d] [-config file] [-i] <class file>\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}

func run(opts runOptions, stdout, stderr io.Writer) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := zap.NewNop()
	if opts.debug || cfg.Debug {
		logger = newDebugLogger(stderr)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("initializing classinfo")
	defer logger.Debug("cleaning up classinfo")

	cf, err := classfile.DecodeFile(opts.path, cfg.Options(logger)...)
	if err != nil {
		return err
	}
	defer cf.Release()

	if opts.interactive {
		if !opts.styled {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(opts.path, cf)
	}

	printSummary(stdout, opts.path, cf.Summary(), opts.styled)
	return nil
}

func printSummary(w io.Writer, path string, s classfile.Summary, styled bool) {
	line := func(label, value string) {
		if styled {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
			return
		}
		fmt.Fprintf(w, "%s: %s\n", label, value)
	}

	line("Class file", path)
	line("Magic", fmt.Sprintf("0x%08X", s.Magic))
	line("Version", fmt.Sprintf("%d.%d", s.MajorVersion, s.MinorVersion))
	line("Constant pool entries", fmt.Sprintf("%d", s.PoolCount))
	line("Methods", fmt.Sprintf("%d", s.MethodCount))
}
