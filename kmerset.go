// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"sync"
)

const (
	kmerSetShardBits = 8
	kmerSetShards    = 1 << kmerSetShardBits

	// Upper limit on the number of entries preallocated from a
	// reserve hint. Larger hints are accepted but only this much
	// is allocated up front.
	maxKmerSetReserve = 1 << 22
)

type kmerSetShard struct {
	mtx   sync.Mutex
	kmers map[uint64]struct{}
}

// kmerSet is an insert-only set of encoded k-mers that is safe for
// concurrent use. Entries are spread over independently locked
// shards.
type kmerSet struct {
	shards [kmerSetShards]kmerSetShard
}

func newKmerSet(reserve int64) *kmerSet {
	if reserve > maxKmerSetReserve {
		reserve = maxKmerSetReserve
	} else if reserve < 0 {
		reserve = 0
	}
	per := int(reserve / kmerSetShards)
	ks := &kmerSet{}
	for i := range ks.shards {
		ks.shards[i].kmers = make(map[uint64]struct{}, per)
	}
	return ks
}

// shardOf mixes all bits of kmer, since short k-mers only use the
// low bits.
func shardOf(kmer uint64) int {
	return int((kmer * 0x9e3779b97f4a7c15) >> (64 - kmerSetShardBits))
}

// Add inserts a single k-mer.
func (ks *kmerSet) Add(kmer uint64) {
	shard := &ks.shards[shardOf(kmer)]
	shard.mtx.Lock()
	shard.kmers[kmer] = struct{}{}
	shard.mtx.Unlock()
}

// Merge inserts every k-mer in local, locking each shard at most
// once.
func (ks *kmerSet) Merge(local map[uint64]struct{}) {
	if len(local) == 0 {
		return
	}
	var byShard [kmerSetShards][]uint64
	for kmer := range local {
		i := shardOf(kmer)
		byShard[i] = append(byShard[i], kmer)
	}
	for i, kmers := range byShard {
		if len(kmers) == 0 {
			continue
		}
		shard := &ks.shards[i]
		shard.mtx.Lock()
		for _, kmer := range kmers {
			shard.kmers[kmer] = struct{}{}
		}
		shard.mtx.Unlock()
	}
}

// Has reports whether kmer has been added.
func (ks *kmerSet) Has(kmer uint64) bool {
	shard := &ks.shards[shardOf(kmer)]
	shard.mtx.Lock()
	defer shard.mtx.Unlock()
	_, ok := shard.kmers[kmer]
	return ok
}

// Len returns the number of distinct k-mers added so far.
func (ks *kmerSet) Len() int64 {
	var n int64
	for i := range ks.shards {
		shard := &ks.shards[i]
		shard.mtx.Lock()
		n += int64(len(shard.kmers))
		shard.mtx.Unlock()
	}
	return n
}
