// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompt asks for texture files on a terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/rigtool/recipe-image-generator/pkg/texture"
)

// SkipAll is the answer that stops all further prompts.
const SkipAll = "!"

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Terminal implements texture.Chooser with line based prompts. An empty
// answer cancels, "!" skips all remaining prompts, anything else must be
// an existing file.
type Terminal struct {
	out   io.Writer
	lines chan string
	// readErr is set before lines is closed.
	readErr error
}

// NewTerminal returns a chooser reading answers from in and writing
// prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{out: out, lines: make(chan string)}
	go t.read(in)
	return t
}

// read feeds input lines to prompts and closes lines at the end of input.
func (t *Terminal) read(in io.Reader) {
	defer close(t.lines)
	s := bufio.NewScanner(in)
	for s.Scan() {
		t.lines <- s.Text()
	}
	t.readErr = s.Err()
}

// PromptForPath implements texture.Chooser.
func (t *Terminal) PromptForPath(ctx context.Context, req texture.Request) (string, error) {
	t.printRequest(req)
	for {
		fmt.Fprint(t.out, "texture file (empty to skip, ! to stop asking): ")

		var (
			text string
			open bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return "", ctx.Err()
		case text, open = <-t.lines:
		}
		if !open {
			fmt.Fprintln(t.out)
			if t.readErr != nil {
				slog.Warn("failed to read answer", "error", t.readErr)
			}
			return "", texture.ErrSkipAll
		}

		answer := strings.Trim(strings.TrimSpace(text), `"'`)
		switch answer {
		case "":
			return "", texture.ErrCancelled
		case SkipAll:
			return "", texture.ErrSkipAll
		}
		answer = expandHome(answer)
		if info, err := os.Stat(answer); err != nil || info.IsDir() {
			fmt.Fprintf(t.out, "%s is not a file\n", answer)
			continue
		}
		return answer, nil
	}
}

func (t *Terminal) printRequest(req texture.Request) {
	fmt.Fprintln(t.out)
	if req.Recipe != "" {
		fmt.Fprintf(t.out, "No texture for %s (recipe %s).\n", req.Identity, req.Recipe)
	} else {
		fmt.Fprintf(t.out, "No texture for %s.\n", req.Identity)
	}
	if req.Attempt > 1 {
		fmt.Fprintln(t.out, "The previous answer is not inside any of these directories:")
	} else {
		fmt.Fprintln(t.out, "Pick a file inside one of:")
	}
	for _, r := range req.Roots {
		fmt.Fprintf(t.out, "  %s\n", r.Dir)
	}
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~"+string(filepath.Separator))
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
