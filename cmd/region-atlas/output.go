package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/refresh"
	"github.com/elevated-systems/region-atlas/pkg/regionatlas/store"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

// render writes v in the format selected by --output
func render(c *cli.Context, v any) error {
	switch format := c.String("output"); format {
	case outputJSON:
		return printJSON(c, v)
	case outputTable:
		header, rows := tableRows(v)
		if header == nil {
			return printJSON(c, v)
		}
		return printTable(c, header, rows)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(c *cli.Context, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(c.App.Writer)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func tableRows(v any) ([]string, [][]string) {
	switch data := v.(type) {
	case []string:
		rows := make([][]string, 0, len(data))
		for _, code := range data {
			rows = append(rows, []string{code})
		}
		return []string{"Country"}, rows

	case []store.RegionView:
		rows := make([][]string, 0, len(data))
		for _, z := range data {
			rows = append(rows, []string{z.Provider, z.RegionID, z.RegionName, z.CountryCode, z.Continent, formatTime(z.LastUpdated)})
		}
		return []string{"Provider", "Region", "Name", "Country", "Continent", "Last Updated"}, rows

	case []continentGroup:
		var rows [][]string
		for _, g := range data {
			for _, z := range g.Regions {
				rows = append(rows, []string{g.Name, z.Provider, z.RegionID, z.CountryCode})
			}
		}
		return []string{"Continent", "Provider", "Region", "Country"}, rows

	case []store.CountryCoverage:
		rows := make([][]string, 0, len(data))
		for _, cc := range data {
			rows = append(rows, []string{cc.Code, cc.Name, cc.Continent, strings.Join(cc.Providers, ", ")})
		}
		return []string{"Code", "Country", "Continent", "Providers"}, rows

	case []store.Provider:
		rows := make([][]string, 0, len(data))
		for _, p := range data {
			rows = append(rows, []string{p.Name, p.DisplayName, p.Color, p.APIEndpoint})
		}
		return []string{"Name", "Display Name", "Color", "API Endpoint"}, rows

	case []store.UpdateLog:
		rows := make([][]string, 0, len(data))
		for _, l := range data {
			rows = append(rows, []string{strconv.FormatInt(l.ID, 10), strconv.FormatInt(l.ProviderID, 10), l.Status, l.Message, formatTime(l.UpdateTime)})
		}
		return []string{"ID", "Provider ID", "Status", "Message", "Time"}, rows

	case *store.Stats:
		rows := [][]string{
			{"total", "regions", strconv.Itoa(data.TotalRegions)},
			{"total", "countries", strconv.Itoa(data.TotalCountries)},
			{"total", "providers", strconv.Itoa(data.TotalProviders)},
		}
		rows = append(rows, countRows("provider", data.RegionsByProvider)...)
		rows = append(rows, countRows("continent", data.RegionsByContinent)...)
		return []string{"Group", "Key", "Regions"}, rows

	case *refresh.Summary:
		rows := countRows("provider", data.RegionsByProvider)
		rows = append(rows, []string{"total", "regions", strconv.Itoa(data.Total)})
		return []string{"Group", "Key", "Regions"}, rows
	}

	return nil, nil
}

func countRows(group string, counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{group, k, strconv.Itoa(counts[k])})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
