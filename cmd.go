// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package kmerstats

import (
	"os"
	"strings"

	"git.arvados.org/arvados.git/lib/cmd"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	handler = cmd.Multi(map[string]cmd.Handler{
		"version":   cmd.Version,
		"-version":  cmd.Version,
		"--version": cmd.Version,

		"count": &countcmd{},
	})
)

func Main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}
	os.Exit(handler.RunCommand(os.Args[0], withDefaultCommand(os.Args[1:]), os.Stdin, os.Stdout, os.Stderr))
}

// withDefaultCommand prepends "count" to args unless args already
// start with a subcommand name, so "kmerstats -k 21 -f x.fa" works.
func withDefaultCommand(args []string) []string {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args
	} else if len(args) > 0 && handler[args[0]] != nil {
		return args
	}
	return append([]string{"count"}, args...)
}
