// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// defaultUnitLines is the target number of lines per work unit.
const defaultUnitLines = 1000

// workUnit is a run of complete input lines that starts at a record
// boundary (or at the start of the input) and ends at one (or at
// the end of the input).
type workUnit struct {
	id    int
	lines int
	data  []byte
}

// EachLine calls fn for each line in the unit, without the line
// terminator.
func (u *workUnit) EachLine(fn func(line []byte)) {
	for data := u.data; len(data) > 0; {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		fn(line)
	}
}

// splitUnits reads FASTA text from rdr and calls emit with each work
// unit in input order. A unit is closed only when it has at least
// unitLines lines and the next line is a header, so no record is
// ever split across two units.
func splitUnits(rdr io.Reader, unitLines int, emit func(workUnit)) error {
	if unitLines < 1 {
		return fmt.Errorf("invalid unit size %d", unitLines)
	}
	in := bufio.NewReaderSize(rdr, 1<<20)
	unit := workUnit{}
	atLineStart := true
	for {
		chunk, err := in.ReadSlice('\n')
		if len(chunk) > 0 {
			if atLineStart && chunk[0] == '>' && unit.lines >= unitLines {
				emit(unit)
				unit = workUnit{id: unit.id + 1}
			}
			unit.data = append(unit.data, chunk...)
			atLineStart = chunk[len(chunk)-1] == '\n'
			if atLineStart {
				unit.lines++
			}
		}
		if err == bufio.ErrBufferFull {
			// line is longer than the read buffer
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
	if !atLineStart {
		unit.lines++
	}
	if len(unit.data) > 0 {
		emit(unit)
	}
	return nil
}
