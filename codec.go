// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

// maxK is the longest window that fits in a uint64 at 2 bits per
// base.
const maxK = 32

var (
	twobit = func() []uint64 {
		r := make([]uint64, 256)
		r[int('a')] = 0
		r[int('A')] = 0
		r[int('c')] = 1
		r[int('C')] = 1
		r[int('g')] = 2
		r[int('G')] = 2
		r[int('t')] = 3
		r[int('T')] = 3
		return r
	}()
	isbase = func() []bool {
		r := make([]bool, 256)
		r[int('a')] = true
		r[int('A')] = true
		r[int('c')] = true
		r[int('C')] = true
		r[int('g')] = true
		r[int('G')] = true
		r[int('t')] = true
		r[int('T')] = true
		return r
	}()
	untwobit = []byte{'A', 'C', 'G', 'T'}
)

// encodeBase returns the 2-bit code for an A, C, G, or T (either
// case). ok is false for anything else, including N.
func encodeBase(b byte) (code uint64, ok bool) {
	return twobit[int(b)], isbase[int(b)]
}

// encodeWindow packs window into a uint64, first base in the most
// significant position. ok is false if the window is longer than
// maxK or contains a base that is not A, C, G, or T.
func encodeWindow(window []byte) (kmer uint64, ok bool) {
	if len(window) > maxK {
		return 0, false
	}
	for _, b := range window {
		if !isbase[int(b)] {
			return 0, false
		}
		kmer = (kmer << 2) | twobit[int(b)]
	}
	return kmer, true
}

// decodeKmer returns the k uppercase bases encoded in kmer.
func decodeKmer(kmer uint64, k int) []byte {
	seq := make([]byte, k)
	for i := len(seq) - 1; i >= 0; i-- {
		seq[i] = untwobit[int(kmer&3)]
		kmer = kmer >> 2
	}
	return seq
}

// kmerMask returns a mask covering the low 2*k bits.
func kmerMask(k int) uint64 {
	if k >= maxK {
		return ^uint64(0)
	}
	return (uint64(1) << (uint(k) * 2)) - 1
}
