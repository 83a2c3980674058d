// Package pipeline orchestrates the decompilation workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/codegen"
	"github.com/retroenv/z80decomp/internal/detector"
	"github.com/retroenv/z80decomp/internal/disasm"
	"github.com/retroenv/z80decomp/internal/liveness"
	"github.com/retroenv/z80decomp/internal/loader"
	"github.com/retroenv/z80decomp/internal/memory"
	"github.com/retroenv/z80decomp/internal/options"
	"github.com/retroenv/z80decomp/internal/report"
	"github.com/retroenv/z80decomp/internal/verification"
	"github.com/retroenv/z80decomp/internal/writer"
)

// Pipeline orchestrates the complete decompilation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// Result contains the outcome of a pipeline run.
type Result struct {
	Roots     []uint16
	Disasm    *disasm.Disasm
	Functions []codegen.Function
	CallTree  string // set if requested by the options
}

// New creates a new decompilation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(logger),
	}
}

// Execute runs the complete decompilation pipeline. Options of a project
// file are applied unless set on the command line.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output io.Writer) (*Result, error) {
	kind := p.detector.Detect(opts)

	input, err := p.loader.Load(opts, kind)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}
	if input.Project != nil {
		input.Project.Apply(&opts)
	}

	return p.ExecuteWithMemory(ctx, input.Memory, opts, output)
}

// ExecuteWithMemory runs the decompilation pipeline with a pre-loaded
// address space. This is useful for testing and programmatic usage.
func (p *Pipeline) ExecuteWithMemory(ctx context.Context, mem *memory.Space, opts options.Program,
	output io.Writer) (*Result, error) {

	roots := opts.Roots
	if len(roots) == 0 {
		roots = []uint16{opts.Base}
	}
	p.printInfo(opts, mem, roots)

	dis := disasm.New(p.logger, mem)
	if _, err := dis.TraceAll(ctx, roots); err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	p.logger.Debug("Tracing finished", log.Int("routines", dis.RoutineCount()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyzing: %w", err)
	}
	liveness.New(p.logger, dis).Analyze(dis.Routines())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}
	functions, err := codegen.New(p.logger, dis, nil).EmitClosure(roots)
	if err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}

	genOpts := options.NewGenerator(opts)
	var buf bytes.Buffer
	w := writer.New(functions, io.MultiWriter(output, &buf), writer.Options{
		Source:  opts.Input,
		Runtime: genOpts.Runtime,
		Listing: genOpts.Listing,
	})
	if err := w.Write(); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	result := &Result{
		Roots:     roots,
		Disasm:    dis,
		Functions: functions,
	}
	if opts.CallTree {
		result.CallTree = report.CallTree(dis, roots)
	}

	if opts.Report != "" {
		if err := p.writeReport(opts, roots, dis.RoutinesByAddress()); err != nil {
			return nil, err
		}
	}

	if opts.Verify {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verifying: %w", err)
		}
		verifyOpts := verification.Options{Runtime: genOpts.Runtime}
		if _, err := verification.VerifyOutput(ctx, p.logger, buf.String(), mem.Bytes(), functions, verifyOpts); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return result, nil
}

func (p *Pipeline) writeReport(opts options.Program, roots []uint16, routines []*disasm.Routine) error {
	file, err := os.Create(opts.Report)
	if err != nil {
		return fmt.Errorf("creating report file %s: %w", opts.Report, err)
	}

	if err := report.New(roots, routines).Encode(file, opts.ReportFormat); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

// printInfo prints information about the input being processed.
func (p *Pipeline) printInfo(opts options.Program, mem *memory.Space, roots []uint16) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing Z80 code",
		log.String("file", opts.Input),
		log.Int("bytes", mem.Loaded()),
		log.Int("roots", len(roots)),
	)
}
