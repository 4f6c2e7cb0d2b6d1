package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// BenchmarkSummary aggregates the runs of one benchmark
type BenchmarkSummary struct {
	Total        int
	Completed    int
	Failed       int
	TimedOut     int
	SinglePage   int // wallets complete with the first page
	Assets       int
	Elapsed      time.Duration
	FirstPageP50 time.Duration
	FirstPageP95 time.Duration
	CompleteP50  time.Duration
	CompleteP95  time.Duration
}

func summarize(runs []WalletRun, elapsed time.Duration) BenchmarkSummary {
	summary := BenchmarkSummary{Total: len(runs), Elapsed: elapsed}

	var firstPages, completes []time.Duration
	for _, run := range runs {
		if run.FirstPage > 0 {
			firstPages = append(firstPages, run.FirstPage)
		}
		if !run.Succeeded() {
			summary.Failed++
			if errors.Is(run.Err, errLoadTimeout) {
				summary.TimedOut++
			}
			continue
		}

		summary.Completed++
		summary.Assets += run.Count
		completes = append(completes, run.Complete)
		if run.Complete == run.FirstPage {
			summary.SinglePage++
		}
	}

	summary.FirstPageP50 = percentile(firstPages, 50)
	summary.FirstPageP95 = percentile(firstPages, 95)
	summary.CompleteP50 = percentile(completes, 50)
	summary.CompleteP95 = percentile(completes, 95)

	return summary
}

func printSummary(cfg *Config, summary BenchmarkSummary, runs []WalletRun) {
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Kind:          %s\n", cfg.Kind)
	fmt.Printf("Page size:     %d\n", cfg.Limit)
	fmt.Printf("Elapsed:       %s\n", formatDuration(summary.Elapsed))
	fmt.Println()

	fmt.Printf("Wallets Summary:\n")
	fmt.Printf("  Total:       %d\n", summary.Total)
	fmt.Printf("  Completed:   %d (%s)\n", summary.Completed, percentageString(summary.Completed, summary.Total))
	fmt.Printf("  Single page: %d\n", summary.SinglePage)
	if summary.Failed > 0 {
		fmt.Printf("  Failed:      %d (%s)\n", summary.Failed, percentageString(summary.Failed, summary.Total))
	}
	if summary.TimedOut > 0 {
		fmt.Printf("  Timed out:   %d\n", summary.TimedOut)
	}
	fmt.Println()

	fmt.Printf("Latency:\n")
	fmt.Printf("  First page:  p50 %s, p95 %s\n", formatDuration(summary.FirstPageP50), formatDuration(summary.FirstPageP95))
	fmt.Printf("  Complete:    p50 %s, p95 %s\n", formatDuration(summary.CompleteP50), formatDuration(summary.CompleteP95))
	fmt.Printf("  Throughput:  %s assets\n", formatRate(summary.Assets, summary.Elapsed))

	for _, run := range runs {
		if run.Err != nil {
			fmt.Printf("\n  ✗ %s: %v", run.WalletID, run.Err)
		}
	}
	fmt.Println()
}

// writeMarkdownReport writes a markdown report of the wallet runs
func writeMarkdownReport(filepath string, cfg *Config, summary BenchmarkSummary, runs []WalletRun) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	// Write header
	_, _ = fmt.Fprintf(file, "# Wallet Assets Benchmark Report\n\n")
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	_, _ = fmt.Fprintf(file, "## Setup\n\n")
	_, _ = fmt.Fprintf(file, "| Property | Value |\n")
	_, _ = fmt.Fprintf(file, "|----------|-------|\n")
	_, _ = fmt.Fprintf(file, "| **API** | `%s` |\n", cfg.APIURL)
	_, _ = fmt.Fprintf(file, "| **Kind** | %s |\n", cfg.Kind)
	_, _ = fmt.Fprintf(file, "| **Page Size** | %d |\n", cfg.Limit)
	_, _ = fmt.Fprintf(file, "| **Cold Cache** | %t |\n", cfg.Cold)
	_, _ = fmt.Fprintf(file, "| **Concurrency** | %d |\n", cfg.Concurrency)
	_, _ = fmt.Fprintf(file, "| **Elapsed** | %s |\n", formatDuration(summary.Elapsed))
	_, _ = fmt.Fprintf(file, "\n")

	_, _ = fmt.Fprintf(file, "## %s Summary\n\n", statusEmoji(summary.Completed, summary.Failed, 0))
	_, _ = fmt.Fprintf(file, "| Metric | Value |\n")
	_, _ = fmt.Fprintf(file, "|--------|-------|\n")
	_, _ = fmt.Fprintf(file, "| **Wallets** | %d |\n", summary.Total)
	_, _ = fmt.Fprintf(file, "| **Completed** | %d (%s) |\n", summary.Completed, percentageString(summary.Completed, summary.Total))
	_, _ = fmt.Fprintf(file, "| **Single Page** | %d |\n", summary.SinglePage)
	if summary.Failed > 0 {
		_, _ = fmt.Fprintf(file, "| **Failed** | %d (%s) |\n", summary.Failed, percentageString(summary.Failed, summary.Total))
	}
	if summary.TimedOut > 0 {
		_, _ = fmt.Fprintf(file, "| **Timed Out** | %d |\n", summary.TimedOut)
	}
	_, _ = fmt.Fprintf(file, "| **First Page p50 / p95** | %s / %s |\n", formatDuration(summary.FirstPageP50), formatDuration(summary.FirstPageP95))
	_, _ = fmt.Fprintf(file, "| **Complete p50 / p95** | %s / %s |\n", formatDuration(summary.CompleteP50), formatDuration(summary.CompleteP95))
	_, _ = fmt.Fprintf(file, "| **Throughput** | %s assets |\n", formatRate(summary.Assets, summary.Elapsed))
	_, _ = fmt.Fprintf(file, "\n")

	_, _ = fmt.Fprintf(file, "## Wallets\n\n")
	_, _ = fmt.Fprintf(file, "| Wallet | First Page | Complete | Assets | Polls | Error |\n")
	_, _ = fmt.Fprintf(file, "|--------|------------|----------|--------|-------|-------|\n")
	for _, run := range runs {
		errText := ""
		if run.Err != nil {
			errText = run.Err.Error()
		}
		_, _ = fmt.Fprintf(file, "| `%s` | %s | %s | %d / %d | %d | %s |\n",
			run.WalletID, formatDuration(run.FirstPage), formatDuration(run.Complete), run.Count, run.TotalCount, run.Polls, errText)
	}

	return nil
}
