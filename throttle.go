// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"runtime"
	"sync"
)

// throttle limits the number of concurrently running work units.
// Max must not change after the first call to Acquire. Max <= 0
// means runtime.NumCPU().
type throttle struct {
	Max       int
	wg        sync.WaitGroup
	ch        chan bool
	setupOnce sync.Once
}

func (t *throttle) setup() {
	t.setupOnce.Do(func() {
		if t.Max <= 0 {
			t.Max = runtime.NumCPU()
		}
		t.ch = make(chan bool, t.Max)
	})
}

// Acquire blocks until fewer than Max slots are in use, then takes
// one.
func (t *throttle) Acquire() {
	t.setup()
	t.wg.Add(1)
	t.ch <- true
}

func (t *throttle) Release() {
	t.wg.Done()
	<-t.ch
}

// Go runs fn in a new goroutine once a slot is available.
func (t *throttle) Go(fn func()) {
	t.Acquire()
	go func() {
		defer t.Release()
		fn()
	}()
}

// Wait blocks until every acquired slot has been released.
func (t *throttle) Wait() {
	t.wg.Wait()
}
