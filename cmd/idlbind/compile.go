package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/partite-ai/idlbind/abi"
	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/config"
	"github.com/partite-ai/idlbind/internal/logger"
	"github.com/partite-ai/idlbind/internal/wasmmem"
	"github.com/partite-ai/idlbind/model"
	"github.com/partite-ai/idlbind/parser"
)

// compiler turns input files into binding files. Each file is an
// independent unit with its own model, so units compile concurrently.
type compiler struct {
	cfg       *config.Config
	generator backend.Generator
	outDir    string
	selfTest  bool
}

func newCompiler(cfg *config.Config, language, outDir string) (*compiler, error) {
	g, err := backend.Lookup(language)
	if err != nil {
		return nil, err
	}
	return &compiler{cfg: cfg, generator: g, outDir: outDir}, nil
}

func (c *compiler) generateAll(ctx context.Context, files []string) error {
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	claims := &outputClaims{byPath: make(map[string]string)}
	g, gctx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			return c.generate(gctx, file, claims)
		})
	}
	return g.Wait()
}

// outputClaims records which input produced each output path in one run so
// two units with the same namespace cannot overwrite each other.
type outputClaims struct {
	mu     sync.Mutex
	byPath map[string]string
}

func (o *outputClaims) claim(path, file string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if prev, ok := o.byPath[path]; ok {
		return fmt.Errorf("%s: output %s is already generated from %s", file, path, prev)
	}
	o.byPath[path] = file
	return nil
}

func (c *compiler) checkAll(ctx context.Context, files []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			ci, err := c.build(gctx, file)
			if err != nil {
				return err
			}
			if c.selfTest {
				if err := runSelfTest(gctx, ci); err != nil {
					logger.LogUnitError(file, err)
					return fmt.Errorf("%s: %w", file, err)
				}
			}
			logger.Info("Unit is valid", "file", file, "namespace", ci.Namespace())
			return nil
		})
	}
	return g.Wait()
}

// build parses file and builds its semantic model.
func (c *compiler) build(ctx context.Context, file string) (*model.ComponentInterface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.LogUnit("build", file)

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := parser.NewParser(f).ParseDocument()
	if err != nil {
		logger.LogUnitError(file, err)
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	ci, err := model.NewBuilder(c.cfg.BuilderOptions()...).Build(doc)
	if err != nil {
		logger.LogUnitError(file, err)
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if err := c.cfg.CheckNamespaceVersion(ci); err != nil {
		logger.LogUnitError(file, err)
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return ci, nil
}

func (c *compiler) generate(ctx context.Context, file string, claims *outputClaims) error {
	ci, err := c.build(ctx, file)
	if err != nil {
		return err
	}

	opts := backend.DefaultOptions(ci)
	if c.cfg.Kotlin.PackageName != "" {
		opts.PackageName = c.cfg.Kotlin.PackageName
	}
	if c.cfg.Kotlin.CdylibName != "" {
		opts.LibraryName = c.cfg.Kotlin.CdylibName
	}

	src, err := c.generator.Generate(ci, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	out := filepath.Join(c.outDir, ci.Namespace()+c.generator.FileExtension())
	if err := claims.claim(out, file); err != nil {
		logger.LogUnitError(file, err)
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("failed to write bindings: %w", err)
	}
	logger.LogGenerated(c.generator.Language(), out, len(src))
	return nil
}

// runSelfTest lowers and lifts a sample of every type of ci through a fresh
// wasm memory, in both string encodings.
func runSelfTest(ctx context.Context, ci *model.ComponentInterface) error {
	mem, err := wasmmem.New(ctx, 1, 0)
	if err != nil {
		return err
	}
	defer mem.Close(ctx)

	for _, enc := range []abi.StringEncoding{abi.UTF8, abi.UTF16} {
		rt := abi.NewRuntime(ci, abi.WithStringEncoding(enc))
		rt.Bootstrap()
		if err := rt.SelfTest(ctx, mem.Boundary()); err != nil {
			return fmt.Errorf("self-test (%s): %w", enc, err)
		}
		logger.Debug("Self-test passed", "namespace", ci.Namespace(), "encoding", enc.String(), "memory", mem.Used())
		mem.Reset()
	}
	return nil
}
