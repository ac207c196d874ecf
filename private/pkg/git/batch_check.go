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
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gitgraft/gitgraft/private/pkg/command"
	"go.uber.org/multierr"
)

// exitTime is the amount of time we'll wait for git-cat-file(1) to exit.
var exitTime = 5 * time.Second

// batchCheckConnection represents a git-cat-file(1) --batch-check process.
type batchCheckConnection struct {
	process command.Process
	tx      io.WriteCloser
	rx      *bufio.Reader
}

func newBatchCheckConnection(
	process command.Process,
	tx io.WriteCloser,
	rx io.ReadCloser,
) *batchCheckConnection {
	return &batchCheckConnection{
		process: process,
		tx:      tx,
		rx:      bufio.NewReader(rx),
	}
}

// ObjectType requests the type of the object at id.
func (c *batchCheckConnection) ObjectType(id Hash) (ObjectType, error) {
	// request
	if _, err := fmt.Fprintf(c.tx, "%s\n", id); err != nil {
		return "", err
	}
	// response
	header, err := c.rx.ReadString('\n')
	if err != nil {
		return "", err
	}
	return parseBatchCheckHeader(strings.TrimRight(header, "\n"))
}

// parseBatchCheckHeader parses one git-cat-file --batch-check response line:
//
//	<object> SP <type> SP <size> LF
//
// or, for unknown objects,
//
//	<object> SP missing LF
func parseBatchCheckHeader(header string) (ObjectType, error) {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[1] == "missing" {
		return "", fmt.Errorf(
			"git-cat-file: %w: %s", ErrObjectNotFound, parts[0],
		)
	}
	if len(parts) != 3 {
		return "", fmt.Errorf("git-cat-file: malformed header: %q", header)
	}
	objectType := ObjectType(parts[1])
	if err := objectType.Validate(); err != nil {
		return "", fmt.Errorf("git-cat-file: %w", err)
	}
	return objectType, nil
}

// Close shuts down cat-file and waits for it to exit.
func (c *batchCheckConnection) Close() error {
	ctx, cancel := context.WithDeadline(
		context.Background(),
		time.Now().Add(exitTime),
	)
	defer cancel()
	return multierr.Combine(
		c.tx.Close(),
		c.process.Wait(ctx),
	)
}
