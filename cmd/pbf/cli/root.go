// Copyright 2025 the original author or authors.
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

// Package cli holds the pbf command's cobra root and shared flag/input
// plumbing; subcommands live in their own packages and register
// themselves onto RootCmd from init.
package cli

import "github.com/spf13/cobra"

// RootCmd is the pbf command's cobra root. Subcommand packages add
// themselves to it from their own init functions.
var RootCmd = &cobra.Command{
	Use:   "pbf",
	Short: "Inspect and stream OpenStreetMap PBF files",
}

// Execute runs the pbf command and returns any error it produced.
func Execute() error {
	return RootCmd.Execute()
}
