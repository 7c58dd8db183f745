// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing/iotest"

	"gopkg.in/check.v1"
)

type partitionSuite struct{}

var _ = check.Suite(&partitionSuite{})

func randomFasta(rnd *rand.Rand, records, maxlines, linelen int) string {
	var buf strings.Builder
	for r := 0; r < records; r++ {
		buf.WriteString(">record")
		buf.WriteByte(byte('0' + r%10))
		buf.WriteByte('\n')
		for l := rnd.Intn(maxlines + 1); l > 0; l-- {
			buf.Write(randomBases(rnd, rnd.Intn(linelen)+1, "ACGTNacgt"))
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func collectUnits(c *check.C, input string, unitLines int) []workUnit {
	var units []workUnit
	err := splitUnits(strings.NewReader(input), unitLines, func(u workUnit) {
		units = append(units, u)
	})
	c.Assert(err, check.IsNil)
	return units
}

func (s *partitionSuite) TestUnitsAlignWithRecords(c *check.C) {
	rnd := rand.New(rand.NewSource(4))
	input := randomFasta(rnd, 200, 12, 80)
	for _, unitLines := range []int{1, 2, 7, 50, 1000, 100000} {
		units := collectUnits(c, input, unitLines)
		var joined []byte
		totalLines := 0
		for i, u := range units {
			c.Check(u.id, check.Equals, i)
			if i > 0 {
				c.Check(u.data[0], check.Equals, byte('>'), check.Commentf("unitLines=%d unit %d", unitLines, i))
			}
			if i < len(units)-1 {
				c.Check(u.lines >= unitLines, check.Equals, true)
			}
			joined = append(joined, u.data...)
			totalLines += u.lines
		}
		c.Check(string(joined), check.Equals, input)
		c.Check(totalLines, check.Equals, strings.Count(input, "\n"))
	}
}

func (s *partitionSuite) TestLongRecordStaysInOneUnit(c *check.C) {
	input := ">a\n" + strings.Repeat("ACGT\n", 50) + ">b\nACGT\n"
	units := collectUnits(c, input, 10)
	c.Assert(units, check.HasLen, 2)
	c.Check(units[0].lines, check.Equals, 51)
	c.Check(string(units[1].data), check.Equals, ">b\nACGT\n")
}

func (s *partitionSuite) TestNoTrailingNewline(c *check.C) {
	units := collectUnits(c, ">a\nAC\n>b\nGT", 1)
	c.Assert(units, check.HasLen, 2)
	c.Check(units[1].lines, check.Equals, 2)
	var lines []string
	units[1].EachLine(func(line []byte) { lines = append(lines, string(line)) })
	c.Check(lines, check.DeepEquals, []string{">b", "GT"})
}

func (s *partitionSuite) TestEmptyInput(c *check.C) {
	c.Check(collectUnits(c, "", 10), check.HasLen, 0)
}

func (s *partitionSuite) TestLineLongerThanBuffer(c *check.C) {
	seq := bytes.Repeat([]byte("ACGT"), 1<<19)
	input := ">a\n" + string(seq) + "\n>b\n" + string(seq[:3<<20/2]) + "\n>c\nAAAA\n"
	units := collectUnits(c, input, 1)
	c.Assert(units, check.HasLen, 3)
	c.Check(units[0].lines, check.Equals, 2)
	c.Check(units[1].lines, check.Equals, 2)
	c.Check(units[2].data[0], check.Equals, byte('>'))
	c.Check(len(units[0].data)+len(units[1].data)+len(units[2].data), check.Equals, len(input))
}

func (s *partitionSuite) TestReadError(c *check.C) {
	errBoom := errors.New("boom")
	rdr := io.MultiReader(strings.NewReader(">a\nACGT\n>b\nAC"), iotest.ErrReader(errBoom))
	err := splitUnits(rdr, 1, func(workUnit) {})
	c.Check(err, check.ErrorMatches, `read input: boom`)
	c.Check(errors.Is(err, errBoom), check.Equals, true)
}

func (s *partitionSuite) TestInvalidUnitSize(c *check.C) {
	err := splitUnits(strings.NewReader(">a\n"), 0, func(workUnit) {})
	c.Check(err, check.ErrorMatches, `invalid unit size 0`)
}
