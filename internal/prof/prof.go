package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

var (
	cpuFile   *os.File
	traceFile *os.File
)

// Options selects the profiles a CLI run should capture. Empty paths are skipped.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Start enables the requested profiles. The returned stop function finishes
// them in reverse order and writes the heap profile last.
func Start(opts Options) (stop func() error, err error) {
	if opts.CPU != "" {
		if err := StartCPU(opts.CPU); err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}
	if opts.Trace != "" {
		if err := StartTrace(opts.Trace); err != nil {
			if opts.CPU != "" {
				StopCPU()
			}
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
	}
	return func() error {
		if opts.Trace != "" {
			StopTrace()
		}
		if opts.CPU != "" {
			StopCPU()
		}
		if opts.Mem != "" {
			if err := WriteMem(opts.Mem); err != nil {
				return fmt.Errorf("heap profile: %w", err)
			}
		}
		return nil
	}, nil
}

// StartCPU enables CPU profiling and writes samples to the provided path.
func StartCPU(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	cpuFile = f
	return nil
}

// StopCPU stops an active CPU profile and closes the underlying file.
func StopCPU() {
	pprof.StopCPUProfile()
	if cpuFile != nil {
		_ = cpuFile.Close()
		cpuFile = nil
	}
}

// WriteMem captures a heap profile to the supplied file path.
func WriteMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

// StartTrace writes runtime trace data to the provided path.
func StartTrace(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return err
	}
	traceFile = f
	return nil
}

// StopTrace ends an active runtime trace and closes the file.
func StopTrace() {
	trace.Stop()
	if traceFile != nil {
		_ = traceFile.Close()
		traceFile = nil
	}
}
