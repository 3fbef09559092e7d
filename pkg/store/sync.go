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

package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"

	getter "github.com/hashicorp/go-getter"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
	"github.com/rigtool/recipe-image-generator/pkg/errors"
	"github.com/rigtool/recipe-image-generator/pkg/oci"
)

// Syncer moves the database directory to and from its remote.
type Syncer interface {
	// Pull replaces the local database with the remote one.
	Pull(ctx context.Context) error
	// Push publishes local database changes.
	Push(ctx context.Context) error
}

// SyncError reports a failed pull or push. It never aborts a run; the
// local database stays usable.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("database %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Code implements errors.Coder.
func (e *SyncError) Code() errors.ErrorCode { return errors.ErrCodeSync }

func asSyncError(op string, err error) error {
	var se *SyncError
	if stderrors.As(err, &se) {
		return err
	}
	return &SyncError{Op: op, Err: err}
}

// NewSyncer returns the syncer for a database URL: oci:// URLs use a
// registry, everything else is a git remote. The branch is used as OCI tag
// when the URL has none.
func NewSyncer(databaseURL, branch, dir string) (Syncer, error) {
	if databaseURL == "" {
		return nil, errors.New(errors.ErrCodeConfiguration,
			"database URL is not set; use --database-url or RIG_DATABASE_URL")
	}
	if branch == "" {
		slog.Warn("database branch not set, using default", "branch", defaults.DatabaseBranch)
		branch = defaults.DatabaseBranch
	}
	if oci.IsReference(databaseURL) {
		ref, err := oci.ParseReference(databaseURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, "invalid database URL", err)
		}
		if ref.Tag == "" {
			ref = ref.WithTag(branch)
		}
		return &OCISyncer{Reference: ref, Dir: dir}, nil
	}
	return NewGitSyncer(databaseURL, branch, dir), nil
}

// CommandRunner runs a command in a directory and returns its combined
// output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Fetcher downloads src into dst.
type Fetcher func(ctx context.Context, dst, src string) error

func getterFetch(ctx context.Context, dst, src string) error {
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Mode: getter.ClientModeDir,
	}
	return client.Get()
}

// GitSyncer keeps the database in a git repository. Pulls go through
// go-getter, which clones or updates the working copy; pushes commit the
// working copy and push it to the branch.
type GitSyncer struct {
	URL     string
	Branch  string
	Dir     string
	Message string

	Run   CommandRunner
	Fetch Fetcher
}

// NewGitSyncer returns a git syncer using the git binary and go-getter.
func NewGitSyncer(remote, branch, dir string) *GitSyncer {
	return &GitSyncer{
		URL:     remote,
		Branch:  branch,
		Dir:     dir,
		Message: defaults.CommitMessage,
		Run:     execRunner,
		Fetch:   getterFetch,
	}
}

// Source returns the go-getter source of the repository.
func (g *GitSyncer) Source() string {
	src := g.URL
	if !strings.HasPrefix(src, "git::") {
		src = "git::" + src
	}
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return src + sep + "ref=" + url.QueryEscape(g.Branch)
}

// Pull implements Syncer.
func (g *GitSyncer) Pull(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SyncPullTimeout)
	defer cancel()

	slog.Info("pulling database", "url", g.URL, "branch", g.Branch, "dir", g.Dir)
	if err := g.Fetch(ctx, g.Dir, g.Source()); err != nil {
		pullTotal.WithLabelValues("error").Inc()
		return &SyncError{Op: "pull", Err: err}
	}
	pullTotal.WithLabelValues("ok").Inc()
	return nil
}

// Push implements Syncer. A working copy without changes is not committed.
func (g *GitSyncer) Push(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SyncPushTimeout)
	defer cancel()

	if out, err := g.Run(ctx, g.Dir, "git", "add", "--all"); err != nil {
		return &SyncError{Op: "push", Err: commandError("git add", out, err)}
	}
	// diff --quiet exits 1 when something is staged
	if _, err := g.Run(ctx, g.Dir, "git", "diff", "--cached", "--quiet"); err != nil {
		if out, err := g.Run(ctx, g.Dir, "git", "commit", "--message", g.Message); err != nil {
			return &SyncError{Op: "push", Err: commandError("git commit", out, err)}
		}
	}
	if out, err := g.Run(ctx, g.Dir, "git", "push", "origin", "HEAD:"+g.Branch); err != nil {
		return &SyncError{Op: "push", Err: commandError("git push", out, err)}
	}
	slog.Info("database pushed", "url", g.URL, "branch", g.Branch)
	return nil
}

func commandError(cmd string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%s: %w: %s", cmd, err, msg)
	}
	return fmt.Errorf("%s: %w", cmd, err)
}

// OCISyncer keeps the database as an artifact in an OCI registry.
type OCISyncer struct {
	Reference   *oci.Reference
	Dir         string
	PlainHTTP   bool
	InsecureTLS bool
}

func (o *OCISyncer) options() oci.TransferOptions {
	return oci.TransferOptions{
		Dir:         o.Dir,
		Reference:   o.Reference,
		PlainHTTP:   o.PlainHTTP,
		InsecureTLS: o.InsecureTLS,
	}
}

// Pull implements Syncer.
func (o *OCISyncer) Pull(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SyncPullTimeout)
	defer cancel()

	res, err := oci.Pull(ctx, o.options())
	if err != nil {
		pullTotal.WithLabelValues("error").Inc()
		return &SyncError{Op: "pull", Err: err}
	}
	pullTotal.WithLabelValues("ok").Inc()
	slog.Info("database pulled", "reference", res.Reference, "digest", res.Digest)
	return nil
}

// Push implements Syncer.
func (o *OCISyncer) Push(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SyncPushTimeout)
	defer cancel()

	opts := o.options()
	opts.Annotations = map[string]string{
		"org.opencontainers.image.title": "recipe-image-generator database",
	}
	res, err := oci.Push(ctx, opts)
	if err != nil {
		return &SyncError{Op: "push", Err: err}
	}
	slog.Info("database pushed", "reference", res.Reference, "digest", res.Digest)
	return nil
}
