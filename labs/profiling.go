package labs

import (
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

var cpuProfile *os.File

func startProfiling() {
	if cpuprofile == "" {
		return
	}
	if err := os.MkdirAll(saveFile, os.ModePerm); err != nil {
		logger.Printf("could not create save folder: %s", err)
		return
	}
	cpuProfPath := path.Join(saveFile, cpuprofile)
	logger.Println("Profiling CPU to", cpuProfPath)
	f, err := os.Create(cpuProfPath)
	if err != nil {
		logger.Printf("could not create CPU profile: %s", err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		logger.Printf("could not start CPU profile: %s", err)
		f.Close()
		return
	}
	cpuProfile = f
}

func stopProfiling() {
	if cpuProfile != nil {
		pprof.StopCPUProfile()
		cpuProfile.Close()
		cpuProfile = nil
	}

	if memprofile == "" {
		return
	}
	memProfPath := path.Join(saveFile, memprofile)
	logger.Println("Profiling Memory to", memProfPath)
	f, err := os.Create(memProfPath)
	if err != nil {
		logger.Printf("could not create memory profile: %s", err)
		return
	}
	defer f.Close()
	runtime.GC() // get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		logger.Printf("could not write memory profile: %s", err)
	}
}
