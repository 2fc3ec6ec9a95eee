// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command mdconv converts a CommonMark document to HTML, reading from
// stdin or a file and writing to stdout (spec.md §6's CLI contract,
// matching original_source/marko's bare command-line convert entry
// point).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/arborist-go/commonmark"
)

var cli struct {
	File       string `arg:"" optional:"" help:"Markdown file to convert (default: stdin)."`
	SoftBreaks string `default:"newline" enum:"newline,space,hard" help:"How to render soft line breaks: newline, space, or hard."`
	Unsafe     bool   `help:"Pass through raw HTML instead of dropping it."`
	Verbose    bool   `short:"v" help:"Log diagnostic information to stderr."`
}

func main() {
	kong.Parse(&cli, kong.Description("Convert CommonMark to HTML."))

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	source, err := readInput(cli.File)
	if err != nil {
		logger.Error("reading input", "error", err)
		os.Exit(1)
	}

	md := &commonmark.Markdown{
		Renderer: commonmark.HTMLRenderer{
			SoftBreakBehavior: softBreakBehavior(cli.SoftBreaks),
			IgnoreRaw:         !cli.Unsafe,
		},
	}

	doc, lrds := md.Parse(source)
	logger.Debug("parsed document", "link_reference_definitions", len(lrds))

	if err := md.Render(os.Stdout, source, doc, lrds); err != nil {
		logger.Error("rendering HTML", "error", err)
		os.Exit(1)
	}
}

func readInput(file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("mdconv: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func softBreakBehavior(flag string) commonmark.SoftBreakBehavior {
	switch flag {
	case "space":
		return commonmark.SoftBreakAsSpace
	case "hard":
		return commonmark.SoftBreakAsHardBreak
	default:
		return commonmark.SoftBreakAsNewline
	}
}
