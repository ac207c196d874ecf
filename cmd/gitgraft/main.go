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

// gitgraft inserts objects into git trees by path without touching the
// working tree or the index, printing the hash of the new root tree.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gitgraft/gitgraft/private/pkg/command"
	"github.com/gitgraft/gitgraft/private/pkg/git"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gitgraft: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	gitDir string
	dir    string
	debug  bool
}

// Bind registers the store flags on flagSet.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.gitDir, "git-dir", "", "path to the repository's git directory")
	flagSet.StringVarP(&f.dir, "dir", "C", "", "run as if started in this directory")
	flagSet.BoolVar(&f.debug, "debug", false, "log every plumbing invocation")
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	rootCommand := &cobra.Command{
		Use:           "gitgraft",
		Short:         "Insert objects into immutable git trees by path",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f.Bind(rootCommand.PersistentFlags())
	rootCommand.AddCommand(
		newInsertCommand(f),
		newPutCommand(f),
		newLsCommand(f),
		newTypeCommand(f),
	)
	return rootCommand
}

func newInsertCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <root-tree> <path> <object>",
		Short: "Insert an existing object at path, printing the new root tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			store, err := f.newStore()
			if err != nil {
				return err
			}
			defer func() {
				retErr = multierr.Append(retErr, store.Close())
			}()
			newRoot, err := git.Insert(
				cmd.Context(),
				store,
				git.Hash(args[0]),
				args[1],
				git.Hash(args[2]),
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), newRoot)
			return nil
		},
	}
}

func newPutCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "put <root-tree> <path> [file]",
		Short: "Store a blob from file or stdin and insert it at path",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			content, err := readContent(cmd, args)
			if err != nil {
				return err
			}
			store, err := f.newStore()
			if err != nil {
				return err
			}
			defer func() {
				retErr = multierr.Append(retErr, store.Close())
			}()
			newRoot, err := git.InsertBlob(
				cmd.Context(),
				store,
				git.Hash(args[0]),
				args[1],
				content,
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), newRoot)
			return nil
		},
	}
}

func newLsCommand(f *flags) *cobra.Command {
	var long bool
	lsCommand := &cobra.Command{
		Use:   "ls <tree>",
		Short: "List the immediate entries of a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			store, err := f.newStore()
			if err != nil {
				return err
			}
			defer func() {
				retErr = multierr.Append(retErr, store.Close())
			}()
			listEntries := store.ListEntries
			if long {
				listEntries = store.ListEntriesLong
			}
			entries, err := listEntries(cmd.Context(), git.Hash(args[0]))
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if entry.Size != "" {
					fmt.Fprintf(
						cmd.OutOrStdout(),
						"%s %s %s %7s\t%s\n",
						entry.Mode, entry.Type, entry.Hash, entry.Size, entry.Name,
					)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}
	lsCommand.Flags().BoolVarP(&long, "long", "l", false, "include object sizes")
	return lsCommand
}

func newTypeCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "type <object>",
		Short: "Print the type of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			store, err := f.newStore()
			if err != nil {
				return err
			}
			defer func() {
				retErr = multierr.Append(retErr, store.Close())
			}()
			objectType, err := store.ObjectType(cmd.Context(), git.Hash(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), objectType)
			return nil
		},
	}
}

func (f *flags) newStore() (git.ObjectService, error) {
	logger, err := newLogger(f.debug)
	if err != nil {
		return nil, err
	}
	var options []git.ObjectStoreOption
	if f.gitDir != "" {
		options = append(options, git.ObjectStoreWithGitDir(f.gitDir))
	}
	if f.dir != "" {
		options = append(options, git.ObjectStoreWithDir(f.dir))
	}
	return git.NewObjectStore(logger, command.NewRunner(), options...)
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return config.Build()
}

func readContent(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 3 {
		return os.ReadFile(args[2])
	}
	return io.ReadAll(cmd.InOrStdin())
}
