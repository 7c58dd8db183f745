// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// kmerStats is the result of a run. Distinct is only meaningful
// when HasDistinct is true.
type kmerStats struct {
	Nucleotides int64
	Windows     int64
	Valid       int64
	Distinct    int64
	HasDistinct bool
}

// aggregator accumulates unit results from concurrent workers.
type aggregator struct {
	nucleotides int64
	windows     int64
	valid       int64
	units       int64
	kmers       *kmerSet // nil in count-only mode
}

func (agg *aggregator) merge(us *unitStats) {
	atomic.AddInt64(&agg.nucleotides, us.nucleotides)
	atomic.AddInt64(&agg.windows, us.windows)
	atomic.AddInt64(&agg.valid, us.valid)
	if agg.kmers != nil {
		agg.kmers.Merge(us.kmers)
	}
	atomic.AddInt64(&agg.units, 1)
}

// result must not be called until all merges have returned.
func (agg *aggregator) result() kmerStats {
	ret := kmerStats{
		Nucleotides: atomic.LoadInt64(&agg.nucleotides),
		Windows:     atomic.LoadInt64(&agg.windows),
		Valid:       atomic.LoadInt64(&agg.valid),
	}
	if agg.kmers != nil {
		ret.Distinct = agg.kmers.Len()
		ret.HasDistinct = true
	}
	return ret
}

// kmerCounter holds the configuration for counting k-mers in FASTA
// input. The same kmerCounter can be used for any number of
// sequential or concurrent calls to Count.
type kmerCounter struct {
	K         int   // window size, 1..32
	Threads   int   // max concurrent units, 0 = runtime.NumCPU()
	Reserve   int64 // capacity hint for the distinct set
	OnlyCount bool  // skip the distinct set
	UnitLines int   // target lines per work unit, 0 = default

	// How often to log progress. 0 = never.
	ProgressInterval time.Duration
}

// Count reads FASTA data from rdr and returns the window counts.
// No partial result is returned if reading fails.
func (kc *kmerCounter) Count(rdr io.Reader) (kmerStats, error) {
	if kc.K < 1 || kc.K > maxK {
		return kmerStats{}, fmt.Errorf("invalid k-mer size %d: must be between 1 and %d", kc.K, maxK)
	}
	unitLines := kc.UnitLines
	if unitLines == 0 {
		unitLines = defaultUnitLines
	}
	pool := &throttle{Max: kc.Threads}
	pool.setup()
	agg := &aggregator{}
	if !kc.OnlyCount {
		agg.kmers = newKmerSet(kc.Reserve)
	}
	log.Infof("counting %d-mers: %d threads, %d lines per unit, count only %v", kc.K, pool.Max, unitLines, kc.OnlyCount)
	starttime := time.Now()

	if kc.ProgressInterval > 0 {
		done := make(chan struct{})
		defer close(done)
		go kc.logProgress(agg, starttime, done)
	}

	units := make(chan workUnit, pool.Max)
	var g errgroup.Group
	g.Go(func() error {
		defer close(units)
		return splitUnits(rdr, unitLines, func(unit workUnit) {
			units <- unit
		})
	})
	g.Go(func() error {
		for unit := range units {
			unit := unit
			pool.Go(func() {
				agg.merge(kc.processUnit(&unit))
			})
		}
		pool.Wait()
		return nil
	})
	if err := g.Wait(); err != nil {
		return kmerStats{}, err
	}
	ret := agg.result()
	log.Infof("counted %d units in %v: %d nucleotides, %d windows, %d valid", agg.units, time.Since(starttime), ret.Nucleotides, ret.Windows, ret.Valid)
	return ret, nil
}

func (kc *kmerCounter) processUnit(unit *workUnit) *unitStats {
	us := newUnitStats(kc.OnlyCount)
	asm := newAssembler(kc.K, us)
	unit.EachLine(asm.Line)
	asm.Flush()
	log.Debugf("unit %d: %d lines, %d nucleotides, %d windows, %d valid, %d local distinct", unit.id, unit.lines, us.nucleotides, us.windows, us.valid, len(us.kmers))
	return us
}

func (kc *kmerCounter) logProgress(agg *aggregator, starttime time.Time, done <-chan struct{}) {
	ticker := time.NewTicker(kc.ProgressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}
		log.Printf("progress: %d units, %d nucleotides, %d valid windows after %v",
			atomic.LoadInt64(&agg.units),
			atomic.LoadInt64(&agg.nucleotides),
			atomic.LoadInt64(&agg.valid),
			time.Since(starttime).Round(time.Second))
	}
}
