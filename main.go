// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/juntada/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
