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

package command

import (
	"context"
	"io"
	"os/exec"
	"runtime"
	"sort"
)

var emptyEnv = map[string]string{
	"__EMPTY_ENV__": "1",
}

type runner struct {
	parallelism int

	semaphoreC chan struct{}
}

func newRunner(options ...RunnerOption) *runner {
	runner := &runner{
		parallelism: runtime.NumCPU(),
	}
	for _, option := range options {
		option(runner)
	}
	runner.semaphoreC = make(chan struct{}, runner.parallelism)
	return runner
}

func (r *runner) Run(ctx context.Context, name string, options ...RunOption) error {
	execOptions := newExecOptions()
	for _, option := range options {
		option(execOptions)
	}
	cmd := exec.CommandContext(ctx, name, execOptions.args...)
	execOptions.ApplyTo(cmd)
	r.increment()
	err := cmd.Run()
	r.decrement()
	return err
}

func (r *runner) Start(name string, options ...StartOption) (Process, error) {
	execOptions := newExecOptions()
	for _, option := range options {
		option(execOptions)
	}
	cmd := exec.Command(name, execOptions.args...)
	execOptions.ApplyTo(cmd)
	done := func() {}
	if !execOptions.longLived {
		r.increment()
		done = r.decrement
	}
	if err := cmd.Start(); err != nil {
		done()
		return nil, err
	}
	return newProcess(cmd, done), nil
}

func (r *runner) increment() {
	r.semaphoreC <- struct{}{}
}

func (r *runner) decrement() {
	<-r.semaphoreC
}

type execOptions struct {
	args      []string
	env       map[string]string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	dir       string
	longLived bool
}

// We set the defaults after calling any options on an execOptions struct
// so that users cannot override the empty values, which would lead to the
// default stdout, stderr, and environment being used.
func newExecOptions() *execOptions {
	return &execOptions{}
}

func (e *execOptions) ApplyTo(cmd *exec.Cmd) {
	if len(e.env) == 0 {
		e.env = emptyEnv
	}
	if e.stdout == nil {
		e.stdout = io.Discard
	}
	if e.stderr == nil {
		e.stderr = io.Discard
	}
	cmd.Env = envSlice(e.env)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	// The default behavior for dir is what we want already, i.e. the current
	// working directory.
	cmd.Dir = e.dir
}

func envSlice(env map[string]string) []string {
	var environ []string
	for key, value := range env {
		environ = append(environ, key+"="+value)
	}
	sort.Strings(environ)
	return environ
}
