// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	log "github.com/sirupsen/logrus"
)

// writeProfilesPeriodically writes cpu.prof and mem.prof in outdir
// once a minute, and once more when done is closed.
func writeProfilesPeriodically(outdir string, done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			writeMemProfile(outdir)
			return
		case <-ticker.C:
		}
		writeMemProfile(outdir)
		writeCPUProfile(outdir, time.Second)
	}
}

func writeCPUProfile(outdir string, duration time.Duration) {
	writeProfile(filepath.Join(outdir, "cpu.prof"), func(f *os.File) error {
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		time.Sleep(duration)
		pprof.StopCPUProfile()
		return nil
	})
}

func writeMemProfile(outdir string) {
	writeProfile(filepath.Join(outdir, "mem.prof"), func(f *os.File) error {
		runtime.GC()
		return pprof.WriteHeapProfile(f)
	})
}

// writeProfile writes to a temp file and renames it into place, so
// readers never see a partial profile.
func writeProfile(fnm string, write func(*os.File) error) {
	f, err := os.OpenFile(fnm+"~", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		log.Print(err)
		return
	}
	defer f.Close()
	if err = write(f); err != nil {
		log.Printf("%s: %s", fnm, err)
		return
	}
	if err = f.Close(); err != nil {
		log.Print(err)
		return
	}
	if err = os.Rename(fnm+"~", fnm); err != nil {
		log.Print(err)
	}
}
