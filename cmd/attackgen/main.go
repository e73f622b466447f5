// Command attackgen builds, validates and inspects the attack tables.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

const usage = `usage: attackgen [flags] <command> [command flags]

commands:
  validate   check a magic set for collisions and record the report
  bench      build the tables and time lookups
  show       print the attacks of one piece
  render     write an attack diagram as .svg or .png
  history    list recorded validation reports
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	if err := run(logger, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Error(err, "command failed", "command", flag.Arg(0))
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(logger logr.Logger, cmd string, args []string) error {
	switch cmd {
	case "validate":
		return runValidate(logger, args)
	case "bench":
		return runBench(logger, args)
	case "show":
		return runShow(logger, args)
	case "render":
		return runRender(logger, args)
	case "history":
		return runHistory(args)
	}
	flag.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}
