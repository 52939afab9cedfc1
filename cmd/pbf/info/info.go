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

// Package info implements the "pbf info" subcommand: a full scan of a
// .osm.pbf file that reports how many of each element kind it contains.
package info

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"go.osmpbf.dev/reader"
	"go.osmpbf.dev/reader/block"
	"go.osmpbf.dev/reader/cmd/pbf/cli"
)

var out io.Writer = os.Stdout

// counts tallies how many of each element kind a file contains.
type counts struct {
	Nodes     int64 `json:"nodes"`
	Ways      int64 `json:"ways"`
	Relations int64 `json:"relations"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format counts as JSON")
	flags.BoolP("progress", "p", true, "show a progress bar on stderr while scanning")
}

var infoCmd = &cobra.Command{
	Use:   "info <OSM file>",
	Short: "Count the nodes, ways, and relations in a PBF file",
	Long:  "Count the nodes, ways, and relations in a PBF file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		showProgress, _ := cmd.Flags().GetBool("progress")
		c, err := runInfo(path, showProgress)
		if err != nil {
			log.Fatal(err)
		}

		jsonfmt, _ := cmd.Flags().GetBool("json")
		if jsonfmt {
			renderJSON(c)
		} else {
			renderTxt(c)
		}
	},
}

func runInfo(path string, showProgress bool) (counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return counts{}, err
	}

	var in io.ReadCloser = f
	if showProgress {
		wrapped, err := cli.WrapInputFile(f)
		if err == nil {
			in = wrapped
		}
	}

	r := pbf.NewReader(in)
	defer r.Close()

	var c counts
	for blk, err := range r.ParBlocks(context.Background()) {
		if err != nil {
			return counts{}, err
		}

		switch blk.Kind() {
		case block.KindDenseNode, block.KindNode:
			c.Nodes += int64(blk.Len())
		case block.KindWay:
			c.Ways += int64(blk.Len())
		case block.KindRelation:
			c.Relations += int64(blk.Len())
		}
	}

	return c, nil
}

func renderJSON(c counts) {
	b, err := json.Marshal(c)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintln(out, string(b))
}

func renderTxt(c counts) {
	fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(c.Nodes))
	fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(c.Ways))
	fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(c.Relations))
}
