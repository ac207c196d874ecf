// Copyright 2024-2026 The Gitgraft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/gitgraft/gitgraft/private/pkg/command"
	"go.uber.org/zap"
)

const gitCommand = "git"

type objectStoreOptions struct {
	gitDir string
	dir    string
}

// ObjectStoreOption is an option for NewObjectStore.
type ObjectStoreOption func(*objectStoreOptions) error

// ObjectStoreWithGitDir sets GIT_DIR for every plumbing command, overriding
// repository discovery from the working directory.
func ObjectStoreWithGitDir(gitDir string) ObjectStoreOption {
	return func(opts *objectStoreOptions) error {
		info, err := os.Stat(gitDir)
		if err != nil {
			return fmt.Errorf("git dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("git dir: %q is not a directory", gitDir)
		}
		opts.gitDir = gitDir
		return nil
	}
}

// ObjectStoreWithDir sets the working directory for every plumbing command.
//
// The default is the current working directory.
func ObjectStoreWithDir(dir string) ObjectStoreOption {
	return func(opts *objectStoreOptions) error {
		opts.dir = dir
		return nil
	}
}

// NewObjectStore returns an ObjectService backed by the plumbing commands of
// a local git repository: git-hash-object(1), git-mktree(1), git-ls-tree(1),
// and a persistent git-cat-file(1) --batch-check process for object types.
//
// The store is safe for concurrent use. Close shuts down the cat-file
// process if one was started.
func NewObjectStore(
	logger *zap.Logger,
	runner command.Runner,
	options ...ObjectStoreOption,
) (ObjectService, error) {
	opts := &objectStoreOptions{}
	for _, option := range options {
		if err := option(opts); err != nil {
			return nil, err
		}
	}
	return &objectStore{
		logger: logger,
		runner: runner,
		gitDir: opts.gitDir,
		dir:    opts.dir,
	}, nil
}

type objectStore struct {
	logger *zap.Logger
	runner command.Runner
	gitDir string
	dir    string

	// lock guards the lazily started batch-check connection.
	lock       sync.Mutex
	connection *batchCheckConnection
}

var _ ObjectService = (*objectStore)(nil)

func (s *objectStore) CreateBlob(ctx context.Context, content []byte) (Hash, error) {
	stdout, err := s.git(ctx, bytes.NewReader(content), "hash-object", "-w", "--stdin")
	if err != nil {
		return "", err
	}
	return Hash(strings.TrimSpace(string(stdout))), nil
}

func (s *objectStore) CreateTree(ctx context.Context, entries []TreeEntry) (Hash, error) {
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.String()
	}
	stdin := strings.NewReader(strings.Join(lines, "\n"))
	stdout, err := s.git(ctx, stdin, "mktree")
	if err != nil {
		return "", err
	}
	return Hash(strings.TrimSpace(string(stdout))), nil
}

func (s *objectStore) ListEntries(ctx context.Context, tree Hash) ([]TreeEntry, error) {
	return s.listEntries(ctx, tree, false)
}

func (s *objectStore) ListEntriesLong(ctx context.Context, tree Hash) ([]TreeEntry, error) {
	return s.listEntries(ctx, tree, true)
}

func (s *objectStore) listEntries(ctx context.Context, tree Hash, long bool) ([]TreeEntry, error) {
	args := []string{"ls-tree", string(tree)}
	if long {
		args = []string{"ls-tree", "--long", string(tree)}
	}
	stdout, err := s.git(ctx, nil, args...)
	if err != nil {
		// git-ls-tree exits 128 when the hash does not resolve to a tree.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return nil, fmt.Errorf("ls-tree %s: %w", tree, ErrObjectNotFound)
		}
		return nil, err
	}
	var entries []TreeEntry
	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, err := ParseTreeEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *objectStore) ObjectType(ctx context.Context, id Hash) (ObjectType, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.connection == nil {
		connection, err := s.connectBatchCheck()
		if err != nil {
			return "", err
		}
		s.connection = connection
	}
	return s.connection.ObjectType(id)
}

func (s *objectStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.connection == nil {
		return nil
	}
	connection := s.connection
	s.connection = nil
	return connection.Close()
}

// connectBatchCheck spawns a git-cat-file(1) --batch-check process to serve
// object type requests. One process serves all requests for the life of the
// store; requests are serialized by the store's lock.
func (s *objectStore) connectBatchCheck() (*batchCheckConnection, error) {
	rx, stdout := io.Pipe()
	stdin, tx := io.Pipe()
	startOpts := []command.StartOption{
		command.StartWithArgs("cat-file", "--batch-check"),
		command.StartWithStdin(stdin),
		command.StartWithStdout(stdout),
		// The connection stays open for the life of the store. It must not
		// hold a parallelism slot, or the one-shot plumbing commands of the
		// same store would block behind it on a single-slot runner.
		command.StartWithLongLived(),
	}
	if s.gitDir != "" {
		startOpts = append(startOpts,
			command.StartWithEnv(map[string]string{
				"GIT_DIR": s.gitDir,
			}),
		)
	}
	if s.dir != "" {
		startOpts = append(startOpts, command.StartWithDir(s.dir))
	}
	s.logger.Debug("git", zap.Strings("args", []string{"cat-file", "--batch-check"}))
	process, err := s.runner.Start(gitCommand, startOpts...)
	if err != nil {
		return nil, err
	}
	return newBatchCheckConnection(process, tx, rx), nil
}

// git runs one plumbing command to completion and returns its stdout. The
// command's stderr is folded into the returned error.
func (s *objectStore) git(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	s.logger.Debug("git", zap.Strings("args", args))
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	runOpts := []command.RunOption{
		command.RunWithArgs(args...),
		command.RunWithStdout(stdout),
		command.RunWithStderr(stderr),
	}
	if stdin != nil {
		runOpts = append(runOpts, command.RunWithStdin(stdin))
	}
	if s.gitDir != "" {
		runOpts = append(runOpts,
			command.RunWithEnv(map[string]string{
				"GIT_DIR": s.gitDir,
			}),
		)
	}
	if s.dir != "" {
		runOpts = append(runOpts, command.RunWithDir(s.dir))
	}
	if err := s.runner.Run(ctx, gitCommand, runOpts...); err != nil {
		if message := strings.TrimSpace(stderr.String()); message != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, message)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
