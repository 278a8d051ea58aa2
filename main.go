package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/devancy/adsidx/internal/construct"
	"github.com/devancy/adsidx/internal/fsdiscover"
	"github.com/devancy/adsidx/internal/indexerr"
	"github.com/devancy/adsidx/internal/invindex"
	"github.com/devancy/adsidx/internal/layout"
	"github.com/devancy/adsidx/internal/searchengine"
	"github.com/devancy/adsidx/internal/textproc"
)

func main() {
	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, indexerr.ErrCancelled) {
			os.Exit(0)
		}
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

// setupLogging configures the log output format.
func setupLogging() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetPrefix("[Search Engine] ")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adsidx",
		Short:         "Inverted-file index and search over a directory of HTML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCountCmd(), newIndexCmd(), newSearchCmd(), newDumpCmd())
	return root
}

// newCountCmd implements `adsidx count`: a word-frequency listing, kept
// deliberately as a few lines of wiring rather than a reusable type.
func newCountCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "count <dir>",
		Short: "Print word counts across the HTML files under dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := countWords(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeCounts(w, counts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write counts to this file instead of stdout")
	return cmd
}

func countWords(dir string) (map[string]int, error) {
	files, err := fsdiscover.Walk(dir, ".html")
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, rel := range files {
		if err := countFile(filepath.Join(dir, rel), counts); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func countFile(path string, counts map[string]int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ts := textproc.NewTokenStream(f)
	for {
		token, ok := ts.Next()
		if !ok {
			return nil
		}
		counts[token]++
	}
}

func writeCounts(w io.Writer, counts map[string]int) error {
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	bw := bufio.NewWriter(w)
	for _, t := range terms {
		if _, err := fmt.Fprintf(bw, "%s %d\n", t, counts[t]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// newIndexCmd implements `adsidx index`.
func newIndexCmd() *cobra.Command {
	var large bool
	var stopPath string

	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: "Build the inverted file index for dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			if err := confirmRebuildIfNeeded(dir); err != nil {
				return err
			}

			var filter *textproc.StopFilter
			if stopPath != "" {
				f, err := textproc.LoadStopFilter(stopPath)
				if err != nil {
					return err
				}
				filter = f
			}

			logger := log.Default()
			if large {
				log.Println("building index with the external merge-tree path")
				return construct.GenIndexLarge(dir, filter, logger)
			}
			log.Println("building index in memory")
			return construct.GenIndex(dir, filter, logger)
		},
	}
	cmd.Flags().BoolVarP(&large, "large", "l", false, "use the external merge-tree construction path")
	cmd.Flags().StringVarP(&stopPath, "stop", "s", "", "path to a stop-word list")
	return cmd
}

func confirmRebuildIfNeeded(dir string) error {
	indexPath := filepath.Join(dir, layout.BaseDir, layout.IndexFileName)
	if _, err := os.Stat(indexPath); err != nil {
		return nil
	}

	fmt.Printf("An index already exists at %s. Rebuild it? [y/N] ", indexPath)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return indexerr.ErrCancelled
	}
	return nil
}

// newSearchCmd implements `adsidx search`.
func newSearchCmd() *cobra.Command {
	var query string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "search <dir>",
		Short: "Query the index built for dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := searchengine.New(args[0])
			if err != nil {
				return err
			}

			if query != "" {
				return runOneShotSearch(engine, query, threshold)
			}
			return runInteractiveSearch(engine, threshold)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "run a single query and exit")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 1.0, "fraction of terms kept before pruning by frequency")
	return cmd
}

// newDumpCmd implements `adsidx dump`: a raw listing of index.dat, the
// one subcommand with no core-operation counterpart, kept around for
// inspecting the binary format by hand.
func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <dir>",
		Short: "Print every term and its posting list from dir's index.dat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexPath := filepath.Join(args[0], layout.BaseDir, layout.IndexFileName)
			f, err := os.Open(indexPath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("%w: %s", indexerr.ErrMissingIndex, args[0])
				}
				return err
			}
			defer f.Close()
			return invindex.Dump(cmd.OutOrStdout(), f)
		},
	}
}

func runOneShotSearch(engine *searchengine.Engine, query string, threshold float64) error {
	report, err := engine.Search(query, threshold)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func runInteractiveSearch(engine *searchengine.Engine, threshold float64) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".search_history.tmp",
		InterruptPrompt: "^C\n",
		EOFPrompt:       "exit\n",
		HistoryLimit:    100,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("Enter query (or '/q' to quit):")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}

		query := strings.TrimSpace(line)
		if query == "" || query == "/q" {
			return nil
		}

		report, err := engine.Search(query, threshold)
		if err != nil {
			log.Printf("search error: %v", err)
			continue
		}
		printReport(report)
	}
}

func printReport(report searchengine.SearchReport) {
	for _, notice := range report.Notices {
		fmt.Println(notice)
	}
	for _, path := range report.Paths {
		fmt.Println(path)
	}
}
