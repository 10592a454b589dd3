package benchmarks

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"

	"github.com/golang/glog"
)

// withProfiling runs f with cpu profiling on when --cpuprofile is set and
// writes a heap profile after it when --memprofile is set. Both files go
// to the save folder.
func withProfiling(saveFile string, f func() error) error {
	if cpuprofile != "" {
		if err := os.MkdirAll(saveFile, os.ModePerm); err != nil {
			return err
		}
		cpuProfPath := path.Join(saveFile, cpuprofile)
		glog.Infof("profiling cpu to %s", cpuProfPath)
		file, err := os.Create(cpuProfPath)
		if err != nil {
			return fmt.Errorf("could not create cpu profile: %w", err)
		}
		defer file.Close()
		if err := pprof.StartCPUProfile(file); err != nil {
			return fmt.Errorf("could not start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := f(); err != nil {
		return err
	}

	if memprofile != "" {
		if err := os.MkdirAll(saveFile, os.ModePerm); err != nil {
			return err
		}
		memProfPath := path.Join(saveFile, memprofile)
		glog.Infof("profiling memory to %s", memProfPath)
		file, err := os.Create(memProfPath)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer file.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(file); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}
	return nil
}
