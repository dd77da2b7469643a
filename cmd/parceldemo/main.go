// Command parceldemo bootstraps a parent process and N worker children that
// all increment a shared parcel under Synchronized, then reports the final
// value. It is the concrete vehicle for exercising the concurrent-increment
// and handle-serialization-over-stdin scenarios the parcel package is built
// around.
package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/outofband/shmparcel/internal/demolog"
	"github.com/outofband/shmparcel/parcel"
)

func main() {
	workerFlag := flag.Bool("worker", false, "run as a worker child (internal use)")
	iterFlag := flag.Int("iterations", 0, "iterations to run (worker mode only)")
	configPath := flag.String("config", "", "optional TOML config file (workers, iterations, capacity)")
	flag.Parse()

	if *workerFlag {
		os.Exit(runWorker(*iterFlag))
	}
	os.Exit(runParent(*configPath))
}

func runParent(configPath string) int {
	logger := demolog.Init("parent")

	cfg, err := loadDemoConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("load config")
		return 1
	}

	p, err := parcel.New(0, parcel.GobCodec[int]{}, cfg.Capacity, 0o600)
	if err != nil {
		logger.Error().Err(err).Msg("create parcel")
		return 1
	}
	defer p.Free()

	logger.Info().Int("workers", cfg.Workers).Int("iterations", cfg.Iterations).Msg("starting workers")

	h := p.Handle()
	cmds := make([]*exec.Cmd, 0, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		cmd := exec.Command(os.Args[0], "-worker", "-iterations", strconv.Itoa(cfg.Iterations))
		cmd.Stderr = os.Stderr
		stdin, err := cmd.StdinPipe()
		if err != nil {
			logger.Error().Err(err).Int("worker", i).Msg("create stdin pipe")
			return 1
		}
		if err := cmd.Start(); err != nil {
			logger.Error().Err(err).Int("worker", i).Msg("start worker")
			return 1
		}
		if err := gob.NewEncoder(stdin).Encode(h); err != nil {
			logger.Error().Err(err).Int("worker", i).Msg("encode handle")
			return 1
		}
		stdin.Close()
		cmds = append(cmds, cmd)
	}

	for i, cmd := range cmds {
		if err := cmd.Wait(); err != nil {
			logger.Error().Err(err).Int("worker", i).Msg("worker exited with error")
			return 1
		}
	}

	final, err := p.Unwrap()
	if err != nil {
		logger.Error().Err(err).Msg("final unwrap")
		return 1
	}
	logger.Info().Int("final_value", final).Msg("done")
	fmt.Println(final)
	return 0
}

func runWorker(iterations int) int {
	logger := demolog.Init("worker")

	var h parcel.Handle
	if err := gob.NewDecoder(os.Stdin).Decode(&h); err != nil {
		logger.Error().Err(err).Msg("decode handle")
		return 1
	}

	p, err := parcel.Open[int](h, parcel.GobCodec[int]{})
	if err != nil {
		logger.Error().Err(err).Msg("open handle")
		return 1
	}
	defer p.Close()

	for i := 0; i < iterations; i++ {
		if _, err := p.Synchronized(func(n int) (int, bool, error) {
			return n + 1, true, nil
		}); err != nil {
			logger.Error().Err(err).Int("iteration", i).Msg("synchronized increment")
			return 1
		}
	}
	return 0
}
