package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
)

// profiler writes <prefix>.cpu.pprof while running and <prefix>.mem.pprof
// on stop. A nil profiler does nothing.
type profiler struct {
	prefix string
	cpu    *os.File
}

func startProfiler(prefix string) (*profiler, error) {
	if prefix == "" {
		return nil, nil
	}
	f, err := os.Create(prefix + ".cpu.pprof")
	if err != nil {
		return nil, fmt.Errorf("failed to create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start CPU profile: %w", err)
	}
	return &profiler{prefix: prefix, cpu: f}, nil
}

func (p *profiler) stop() error {
	if p == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := p.cpu.Close()
	color.Green("CPU profile written to %s", p.cpu.Name())
	return errors.Join(cpuErr, p.writeHeap())
}

func (p *profiler) writeHeap() error {
	f, err := os.Create(p.prefix + ".mem.pprof")
	if err != nil {
		return fmt.Errorf("failed to create memory profile: %w", err)
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	color.Green("Memory profile written to %s", f.Name())
	return nil
}
