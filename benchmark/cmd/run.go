package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	Scenario   string  `json:"scenario"`
	Iterations int64   `json:"iterations"`
	NsPerOp    float64 `json:"ns_per_op"`
	BytesPerOp int64   `json:"bytes_per_op"`
	AllocsOp   int64   `json:"allocs_per_op"`
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"SimpleDI":          {text.FgGreen},
	"SimpleDIInjection": {text.FgCyan},
	"Do":                {text.FgYellow},
	"DoScope":           {text.FgYellow},
	"Dig":               {text.FgMagenta},
	"Fx":                {text.FgBlue},
}

var categoryTitles = map[string]string{
	"Provide_Simple": "Registration (single constructor)",
	"Provide_Chain":  "Registration (six constructor chain)",
	"Invoke_Runtime": "Resolution, one shared instance",
	"Invoke_Thread":  "Resolution, one instance per execution context",
	"Invoke_Request": "Resolution, new graph per request",
}

var categoryOrder = []string{
	"Provide_Simple", "Provide_Chain",
	"Invoke_Runtime", "Invoke_Thread", "Invoke_Request",
}

func main() {
	title := text.Colors{text.Bold, text.FgCyan}
	fmt.Println()
	fmt.Println(title.Sprint("simpledi benchmark suite"))
	fmt.Println(text.Faint.Sprint("Running benchmarks..."))
	fmt.Println()

	benchDir := ".."
	if len(os.Args) > 1 && os.Args[1] != "--json" {
		benchDir = os.Args[1]
	}

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Benchmark failed: %s\n", string(exitErr.Stderr))
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}

	printSummary(grouped)

	if slices.Contains(os.Args[1:], "--json") {
		exportJSON(results)
	}
}

func parseResults(output []byte) []BenchmarkResult {
	benchPattern := regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)
	namePattern := regexp.MustCompile(`^([^_]+)_([^_]+)_(\w+)$`)

	seen := make(map[string][]BenchmarkResult)
	var order []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		matches := benchPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		name := matches[1]
		parts := namePattern.FindStringSubmatch(name)
		if parts == nil {
			continue
		}

		iterations, _ := strconv.ParseInt(matches[2], 10, 64)
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		bytesPerOp, _ := strconv.ParseInt(matches[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(matches[5], 10, 64)

		if _, ok := seen[name]; !ok {
			order = append(order, name)
		}
		seen[name] = append(
			seen[name], BenchmarkResult{
				Name:       name,
				Category:   parts[1],
				Scenario:   parts[2],
				Framework:  parts[3],
				Iterations: iterations,
				NsPerOp:    nsPerOp,
				BytesPerOp: bytesPerOp,
				AllocsOp:   allocsOp,
			},
		)
	}

	results := make([]BenchmarkResult, 0, len(order))
	for _, name := range order {
		results = append(results, average(seen[name]))
	}
	return results
}

func average(runs []BenchmarkResult) BenchmarkResult {
	var totalNs float64
	var totalBytes, totalAllocs int64
	for _, r := range runs {
		totalNs += r.NsPerOp
		totalBytes += r.BytesPerOp
		totalAllocs += r.AllocsOp
	}
	count := float64(len(runs))

	avg := runs[0]
	avg.NsPerOp = totalNs / count
	avg.BytesPerOp = int64(float64(totalBytes) / count)
	avg.AllocsOp = int64(float64(totalAllocs) / count)
	return avg
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	for _, r := range results {
		key := r.Category + "_" + r.Scenario
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.SliceStable(
		keys, func(i, j int) bool {
			return orderOf(keys[i]) < orderOf(keys[j]) ||
				(orderOf(keys[i]) == orderOf(keys[j]) && keys[i] < keys[j])
		},
	)

	ordered := make([]CategoryResults, 0, len(keys))
	for _, key := range keys {
		rs := groups[key]
		sort.Slice(
			rs, func(i, j int) bool {
				return rs[i].NsPerOp < rs[j].NsPerOp
			},
		)
		ordered = append(ordered, CategoryResults{Category: key, Results: rs})
	}
	return ordered
}

func orderOf(key string) int {
	if i := slices.Index(categoryOrder, key); i >= 0 {
		return i
	}
	return len(categoryOrder)
}

func printCategory(cat CategoryResults) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(formatCategoryTitle(cat.Category))
	t.AppendHeader(table.Row{"Framework", "", "Time/op", "Bytes/op", "Allocs/op", "Relative"})
	t.SetColumnConfigs(
		[]table.ColumnConfig{
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
			{Number: 5, Align: text.AlignRight},
			{Number: 6, Align: text.AlignRight},
		},
	)

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}

		t.AppendRow(
			table.Row{
				colorFor(r.Framework).Sprint(r.Framework),
				makeBar(r.NsPerOp, fastest, 20),
				formatNs(r.NsPerOp),
				r.BytesPerOp,
				r.AllocsOp,
				relative,
			},
		)
	}

	t.Render()
	fmt.Println()
}

func colorFor(framework string) text.Colors {
	if c, ok := frameworkColors[framework]; ok {
		return c
	}
	return text.Colors{text.Reset}
}

func formatCategoryTitle(cat string) string {
	if title, ok := categoryTitles[cat]; ok {
		return title
	}
	return strings.ReplaceAll(cat, "_", " ")
}

func makeBar(value, fastest float64, width int) string {
	if fastest == 0 {
		return strings.Repeat("█", width)
	}

	ratio := min(value/fastest, 10)
	filled := max(1, min(width, int(float64(width)/ratio)))

	return text.FgGreen.Sprint(strings.Repeat("█", filled)) +
		text.FgRed.Sprint(strings.Repeat("░", width-filled))
}

func formatNs(ns float64) string {
	if ns >= 1_000_000 {
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	}
	if ns >= 1_000 {
		return fmt.Sprintf("%.2f µs", ns/1_000)
	}
	return fmt.Sprintf("%.0f ns", ns)
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		wins[cat.Results[0].Framework]++
	}

	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Slice(
		names, func(i, j int) bool {
			return wins[names[i]] > wins[names[j]] ||
				(wins[names[i]] == wins[names[j]] && names[i] < names[j])
		},
	)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"#", "Framework", "Fastest in"})

	for i, name := range names {
		t.AppendRow(
			table.Row{
				i + 1,
				colorFor(name).Sprint(name),
				fmt.Sprintf("%d/%d categories", wins[name], len(groups)),
			},
		)
	}

	t.AppendFooter(table.Row{"", "Compared", "simpledi, samber/do, uber/dig, uber/fx"})
	t.Render()
	fmt.Println()
}

func exportJSON(results []BenchmarkResult) {
	output := struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{
		Benchmarks: results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to encode results: %v\n", err)
		return
	}
	_ = os.WriteFile("benchmark_results.json", data, 0o644)
}
