// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"bytes"
)

// unitStats holds the counters and distinct k-mers seen by a single
// work unit. It is owned by one worker until it is merged.
type unitStats struct {
	nucleotides int64
	windows     int64
	valid       int64
	kmers       map[uint64]struct{} // nil in count-only mode
}

func newUnitStats(onlyCount bool) *unitStats {
	us := &unitStats{}
	if !onlyCount {
		us.kmers = map[uint64]struct{}{}
	}
	return us
}

// assembler concatenates the data lines of one FASTA record and
// extracts its k-mer windows when the record ends.
type assembler struct {
	k     int
	mask  uint64
	seq   []byte
	stats *unitStats
}

func newAssembler(k int, stats *unitStats) *assembler {
	return &assembler{k: k, mask: kmerMask(k), stats: stats}
}

// Line handles one input line, without its trailing newline. A
// header line ends the current record.
func (a *assembler) Line(line []byte) {
	if len(line) > 0 && line[0] == '>' {
		a.Flush()
		return
	}
	for _, b := range bytes.TrimSpace(line) {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		a.seq = append(a.seq, b)
	}
}

// Flush counts the windows of the accumulated sequence, adds the
// valid ones to the unit's k-mer set, and clears the sequence.
//
// The key is maintained incrementally, so it equals
// encodeWindow(seq[i-k+1:i+1]) whenever the last k bases were all
// valid (run >= k).
func (a *assembler) Flush() {
	if len(a.seq) == 0 {
		return
	}
	a.stats.nucleotides += int64(len(a.seq))
	if n := len(a.seq) - a.k + 1; n > 0 {
		a.stats.windows += int64(n)
	}
	var key uint64
	run := 0
	for _, b := range a.seq {
		code, ok := encodeBase(b)
		if !ok {
			run = 0
			continue
		}
		key = ((key << 2) | code) & a.mask
		if run++; run < a.k {
			continue
		}
		a.stats.valid++
		if a.stats.kmers != nil {
			a.stats.kmers[key] = struct{}{}
		}
	}
	a.seq = a.seq[:0]
}
