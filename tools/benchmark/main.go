package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/feral-file/ff-wallet-assets/internal/api/rest/dto"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
)

const (
	defaultAPIURL = "http://localhost:8080"
	pollInterval  = 500 * time.Millisecond // How often to check if a wallet finished loading
)

var errLoadTimeout = errors.New("wallet did not finish loading in time")

type Config struct {
	APIURL       string
	Kind         domain.AssetKind
	Wallets      []string
	Limit        int
	Cold         bool          // Invalidate each wallet before measuring
	Concurrency  int           // Number of wallets measured at once
	LoadTimeout  time.Duration // Timeout for a wallet to become complete
	PollInterval time.Duration
	OutputFile   string // Output markdown file path (optional)
}

// WalletRun holds the measurements of one wallet
type WalletRun struct {
	WalletID   string
	FirstPage  time.Duration // GetAssets round trip, page 0 included
	Complete   time.Duration // from the request until the status reports complete
	FirstCount int
	Count      int
	TotalCount int
	Polls      int
	Err        error
}

// Succeeded reports whether the wallet finished loading
func (r WalletRun) Succeeded() bool {
	return r.Err == nil
}

func main() {
	cfg := parseFlags()

	if len(cfg.Wallets) == 0 {
		fmt.Println("Error: at least one wallet is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	r := newRunner(cfg, &http.Client{Timeout: 60 * time.Second})

	fmt.Printf("Benchmarking %d %s wallet(s) against %s (concurrency: %d, cold: %t)\n",
		len(cfg.Wallets), cfg.Kind, cfg.APIURL, cfg.Concurrency, cfg.Cold)

	start := time.Now()
	runs := r.runAll(ctx)
	summary := summarize(runs, time.Since(start))

	fmt.Println("\n" + strings.Repeat("=", 80))
	if ctx.Err() != nil {
		fmt.Println("INTERRUPTED - PARTIAL RESULTS")
	} else {
		fmt.Println("BENCHMARK RESULTS")
	}
	fmt.Println(strings.Repeat("=", 80))
	printSummary(cfg, summary, runs)

	// Write to markdown file if specified
	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, cfg, summary, runs); err != nil {
			fmt.Printf("\n⚠️  Warning: Failed to write markdown file: %v\n", err)
		} else {
			fmt.Printf("\n✓ Report written to: %s\n", cfg.OutputFile)
		}
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	var kind, wallets string
	flag.StringVar(&cfg.APIURL, "api", defaultAPIURL, "Wallet assets API base URL")
	flag.StringVar(&kind, "kind", string(domain.AssetKindNFT), "Asset kind to load (nft or uniq)")
	flag.StringVar(&wallets, "wallets", "", "Comma separated wallet ids")
	flag.IntVar(&cfg.Limit, "limit", domain.DEFAULT_PAGE_SIZE, "Page size requested from the API")
	flag.BoolVar(&cfg.Cold, "cold", true, "Invalidate each wallet before measuring")
	flag.IntVar(&cfg.Concurrency, "concurrency", 5, "Number of wallets measured at once (default: 5)")
	flag.DurationVar(&cfg.LoadTimeout, "timeout", 5*time.Minute, "Timeout for a wallet to finish loading")
	flag.StringVar(&cfg.OutputFile, "output", "", "Output markdown file path (optional)")

	configFile := flag.String("config", "", "Path to config file (optional)")

	flag.Parse()

	parsedKind, err := domain.ParseAssetKind(kind)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Kind = parsedKind
	cfg.Wallets = splitWallets(wallets)
	cfg.PollInterval = pollInterval

	// Validate concurrency
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.Concurrency > 50 {
		cfg.Concurrency = 50 // Cap at 50 to avoid overwhelming the asset graph
	}

	// Load from config file if specified
	if *configFile != "" {
		fileCfg, err := LoadConfig(*configFile)
		if err != nil {
			fmt.Printf("Warning: failed to load config file: %v\n", err)
		} else {
			// Override with file values if not set via flags
			if cfg.APIURL == defaultAPIURL && fileCfg.APIURL != "" {
				cfg.APIURL = fileCfg.APIURL
			}
			if len(cfg.Wallets) == 0 {
				cfg.Wallets = fileCfg.Wallets
			}
		}
	}
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")

	return cfg
}

// splitWallets parses a comma separated wallet list, dropping blanks
func splitWallets(s string) []string {
	var wallets []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			wallets = append(wallets, w)
		}
	}
	return wallets
}

type runner struct {
	cfg    *Config
	client *http.Client
}

func newRunner(cfg *Config, client *http.Client) *runner {
	return &runner{cfg: cfg, client: client}
}

// runAll measures every wallet on a bounded pool and returns the runs in input order
func (r *runner) runAll(ctx context.Context) []WalletRun {
	runs := make([]WalletRun, len(r.cfg.Wallets))

	pool := pond.NewPool(r.cfg.Concurrency)
	for i, wallet := range r.cfg.Wallets {
		pool.Submit(func() {
			runs[i] = r.runWallet(ctx, wallet)
			status := "✓"
			if runs[i].Err != nil {
				status = "✗"
			}
			fmt.Printf("  %s %s (first page: %s, complete: %s, assets: %d)\n",
				status, wallet, formatDuration(runs[i].FirstPage), formatDuration(runs[i].Complete), runs[i].Count)
		})
	}
	pool.StopAndWait()

	return runs
}

// runWallet measures the first page and the time until the background fill completes
func (r *runner) runWallet(ctx context.Context, wallet string) WalletRun {
	run := WalletRun{WalletID: wallet}

	if r.cfg.Cold {
		if err := r.invalidate(ctx, wallet); err != nil {
			run.Err = err
			return run
		}
	}

	start := time.Now()
	var page dto.WalletAssetsResponse
	if err := r.getJSON(ctx, r.kindPath(wallet, "")+"?limit="+fmt.Sprint(r.cfg.Limit), &page); err != nil {
		run.Err = err
		return run
	}
	run.FirstPage = time.Since(start)
	run.FirstCount = page.Count
	run.Count = page.Count
	run.TotalCount = page.TotalCount

	if page.Complete {
		run.Complete = run.FirstPage
		return run
	}

	loadCtx, cancel := context.WithTimeout(ctx, r.cfg.LoadTimeout)
	defer cancel()

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-loadCtx.Done():
			run.Err = errLoadTimeout
			if ctx.Err() != nil {
				run.Err = ctx.Err()
			}
			return run
		case <-ticker.C:
		}

		run.Polls++
		var status dto.WalletStatusResponse
		if err := r.getJSON(loadCtx, r.kindPath(wallet, "/status"), &status); err != nil {
			// transient; retried on the next tick
			continue
		}
		run.Count = status.Count
		run.TotalCount = status.TotalCount

		if status.Complete {
			run.Complete = time.Since(start)
			return run
		}
		if !status.Loading && status.Cached {
			// the fill stopped short, the cache keeps the partial list
			run.Complete = time.Since(start)
			run.Err = fmt.Errorf("fill stopped at %d of %d assets", status.Count, status.TotalCount)
			return run
		}
	}
}

func (r *runner) kindPath(wallet, suffix string) string {
	return fmt.Sprintf("%s/api/v1/%ss/%s%s", r.cfg.APIURL, r.cfg.Kind, url.PathEscape(wallet), suffix)
}

func (r *runner) invalidate(ctx context.Context, wallet string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/v1/wallets/%s", r.cfg.APIURL, url.PathEscape(wallet)), nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to invalidate wallet: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("failed to invalidate wallet: status %d", resp.StatusCode)
	}
	return nil
}

func (r *runner) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
