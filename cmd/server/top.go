// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"github.com/valyala/fastjson"
)

var tableHeaderBlue = tablewriter.Colors{tablewriter.FgHiBlueColor}

var dimensionNames = map[int]string{1: "1D", 2: "2D", 3: "3D"}

type rankingRow struct {
	pollID         uint64
	count          uint64
	dimensionality int
	timezone       int
}

func topHandler(c *cli.Context, w io.Writer) error {
	target, err := rankingsURL(
		c.String("address"),
		c.String("tz"),
		c.String("period"),
		c.Uint64("location"),
		c.Uint64("category"),
		c.Int("n"),
	)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("failed to query %v: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	rows, err := parseRankings(resp.StatusCode, body)
	if err != nil {
		return err
	}
	renderRankings(w, rows)
	return nil
}

// rankingsURL picks the leaderboard from the flags that were set
func rankingsURL(address, tz, period string, location, category uint64, n int) (string, error) {
	q := url.Values{}
	q.Set("tz", tz)
	q.Set("period", period)
	q.Set("n", strconv.Itoa(n))

	var endpoint string
	switch {
	case location != 0 && category != 0:
		endpoint = "/rankings/location-category"
		q.Set("location", strconv.FormatUint(location, 10))
		q.Set("category", strconv.FormatUint(category, 10))
	case location != 0:
		endpoint = "/rankings/location"
		q.Set("location", strconv.FormatUint(location, 10))
	case category != 0:
		endpoint = "/rankings/category"
		q.Set("category", strconv.FormatUint(category, 10))
	default:
		return "", fmt.Errorf("one of location and category is required")
	}
	return strings.TrimSuffix(address, "/") + endpoint + "?" + q.Encode(), nil
}

func parseRankings(status int, body []byte) ([]rankingRow, error) {
	var parser fastjson.Parser
	v, err := parser.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("malformed response (status %d): %w", status, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%s %s", color.RedString(http.StatusText(status)), v.GetStringBytes("message"))
	}

	rankings := v.GetArray("rankings")
	rows := make([]rankingRow, 0, len(rankings))
	for _, r := range rankings {
		rows = append(rows, rankingRow{
			pollID:         r.GetUint64("pollId"),
			count:          r.GetUint64("count"),
			dimensionality: r.GetInt("dimensionality"),
			timezone:       r.GetInt("timezone"),
		})
	}
	return rows, nil
}

func renderRankings(w io.Writer, rows []rankingRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, color.YellowString("No polls ranked."))
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetBorder(true)
	table.SetColumnSeparator("|")
	table.SetHeader([]string{"Rank", "Poll", "Votes", "Type", "Timezone"})
	table.SetHeaderColor(tableHeaderBlue, tableHeaderBlue, tableHeaderBlue, tableHeaderBlue, tableHeaderBlue)
	for i, row := range rows {
		table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(row.pollID, 10),
			strconv.FormatUint(row.count, 10),
			dimensionNames[row.dimensionality],
			strconv.Itoa(row.timezone),
		})
	}
	table.Render()
}
