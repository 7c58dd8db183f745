// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"time"

	log "github.com/sirupsen/logrus"
)

type countcmd struct {
	kmerCounter
	inputFile string
}

func (cmd *countcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	for _, name := range []string{"k", "kmer-size"} {
		flags.IntVar(&cmd.K, name, 0, "k-mer `size` (1 to 32, required)")
	}
	for _, name := range []string{"f", "input-file"} {
		flags.StringVar(&cmd.inputFile, name, "", "input fasta `file`, optionally gzipped (\"-\" for stdin)")
	}
	for _, name := range []string{"r", "reserve"} {
		flags.Int64Var(&cmd.Reserve, name, 3000000000, "initial capacity `hint` for the distinct k-mer set (ignored with -only-count)")
	}
	for _, name := range []string{"c", "only-count"} {
		flags.BoolVar(&cmd.OnlyCount, name, false, "only count nucleotides and k-mers, do not count distinct k-mers")
	}
	for _, name := range []string{"t", "max-threads"} {
		flags.IntVar(&cmd.Threads, name, 0, "maximum `number` of concurrent workers (0 = number of CPUs)")
	}
	flags.IntVar(&cmd.UnitLines, "unit-lines", defaultUnitLines, "target `lines` per work unit (units always end at a record boundary)")
	flags.DurationVar(&cmd.ProgressInterval, "progress-interval", time.Minute, "log progress every `interval` (0 = never)")
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	pprofdir := flags.String("pprof-dir", "", "write Go profile data to `directory` periodically")
	loglevel := flags.String("loglevel", "info", "logging threshold (trace, debug, info, warn, error, fatal, or panic)")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if flags.NArg() > 0 {
		err = fmt.Errorf("unexpected arguments: %q", flags.Args())
		return 2
	} else if cmd.inputFile == "" {
		err = errors.New("no input file specified (-f)")
		return 2
	} else if cmd.K < 1 || cmd.K > maxK {
		err = fmt.Errorf("invalid k-mer size %d: must be between 1 and %d", cmd.K, maxK)
		return 2
	} else if cmd.Reserve < 0 {
		err = fmt.Errorf("invalid reserve size %d: must not be negative", cmd.Reserve)
		return 2
	} else if cmd.Threads < 0 {
		err = fmt.Errorf("invalid thread count %d: must not be negative", cmd.Threads)
		return 2
	} else if cmd.UnitLines < 1 {
		err = fmt.Errorf("invalid unit size %d: must be positive", cmd.UnitLines)
		return 2
	}

	lvl, err := log.ParseLevel(*loglevel)
	if err != nil {
		return 2
	}
	log.SetLevel(lvl)

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}
	if *pprofdir != "" {
		done := make(chan struct{})
		defer close(done)
		go writeProfilesPeriodically(*pprofdir, done)
	}

	input, err := zopen(cmd.inputFile, stdin)
	if err != nil {
		return 1
	}
	defer input.Close()

	result, err := cmd.Count(input)
	if err != nil {
		err = fmt.Errorf("%s: %w", cmd.inputFile, err)
		return 1
	}
	err = input.Close()
	if err != nil {
		return 1
	}

	bufw := bufio.NewWriter(stdout)
	writeKmerStats(bufw, cmd.K, result)
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	return 0
}

func writeKmerStats(w io.Writer, k int, result kmerStats) {
	fmt.Fprintf(w, "Total nucleotides: %d\n", result.Nucleotides)
	fmt.Fprintf(w, "Total k-mers: %d\n", result.Windows)
	fmt.Fprintf(w, "Valid k-mers: %d\n", result.Valid)
	if result.HasDistinct {
		fmt.Fprintf(w, "Number of distinct %d-mers: %d\n", k, result.Distinct)
	}
}
