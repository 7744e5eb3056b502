// Command idlbind compiles interface definitions into foreign-language
// bindings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/config"
	"github.com/partite-ai/idlbind/internal/logger"

	_ "github.com/partite-ai/idlbind/bindings/kotlin"
)

const usage = `Usage: idlbind <command> [flags] <file.idl>...

Commands:
  generate   write bindings for each input file
  check      build the semantic model without writing anything
  watch      regenerate bindings whenever an input changes
  version    print the version and exit
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "generate":
		err = runGenerate(ctx, args)
	case "check":
		err = runCheck(ctx, args)
	case "watch":
		err = runWatch(ctx, args)
	case "version":
		fmt.Println(version())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "idlbind: %v\n", err)
		os.Exit(1)
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "idlbind (devel)"
	}
	return "idlbind " + info.Main.Version
}

// commonFlags are shared by every command that compiles units.
type commonFlags struct {
	configPath string
	language   string
	outDir     string
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", config.DefaultFile, "configuration file")
	fs.StringVar(&c.language, "lang", "kotlin", fmt.Sprintf("target language %v", backend.Languages()))
	fs.StringVar(&c.outDir, "out", ".", "output directory")
	fs.BoolVar(&c.verbose, "v", false, "log at debug level")
}

// setup loads the configuration and initializes logging.
func (c *commonFlags) setup(fs *flag.FlagSet) (*config.Config, error) {
	if fs.NArg() == 0 {
		return nil, fmt.Errorf("%s: no input files", fs.Name())
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	lc := cfg.LoggerConfig()
	if c.verbose {
		lc.Level = logger.LevelDebug
	}
	if err := logger.Init(lc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(ctx context.Context, args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	flags.register(fs)
	fs.Parse(args)

	cfg, err := flags.setup(fs)
	if err != nil {
		return err
	}
	c, err := newCompiler(cfg, flags.language, flags.outDir)
	if err != nil {
		return err
	}
	return c.generateAll(ctx, fs.Args())
}

func runCheck(ctx context.Context, args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	flags.register(fs)
	selfTest := fs.Bool("selftest", false, "round-trip a sample value of every type through wasm memory")
	fs.Parse(args)

	cfg, err := flags.setup(fs)
	if err != nil {
		return err
	}
	c, err := newCompiler(cfg, flags.language, flags.outDir)
	if err != nil {
		return err
	}
	c.selfTest = *selfTest
	return c.checkAll(ctx, fs.Args())
}

func runWatch(ctx context.Context, args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	flags.register(fs)
	fs.Parse(args)

	cfg, err := flags.setup(fs)
	if err != nil {
		return err
	}
	c, err := newCompiler(cfg, flags.language, flags.outDir)
	if err != nil {
		return err
	}
	return c.watch(ctx, fs.Args(), cfg.Watch.Debounce)
}
