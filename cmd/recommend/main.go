package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/csvhub/recommend/internal/corpus"
	"github.com/csvhub/recommend/internal/counter"
	"github.com/csvhub/recommend/internal/engine"
	"github.com/csvhub/recommend/internal/extract"
	"github.com/csvhub/recommend/internal/fetch"
	"github.com/csvhub/recommend/internal/spinner"
	"github.com/csvhub/recommend/internal/store"

	"github.com/spf13/cobra"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore opens the dataset store at the path given by the --db flag.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening dataset store: %w", err)
	}
	return st, nil
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// parseAuthors splits repeated --author flag values of the form
// "Name" or "Name|Affiliation" into store.Author records.
func parseAuthors(values []string) []store.Author {
	var authors []store.Author
	for _, v := range values {
		name, affiliation, _ := strings.Cut(v, "|")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		authors = append(authors, store.Author{
			Name:        name,
			Affiliation: strings.TrimSpace(affiliation),
		})
	}
	return authors
}

// retrainAfterWrite rebuilds the recommendation models after a dataset write.
// A retrain failure is reported but never fails the write itself; the new
// dataset is stored and will be picked up by the next successful retrain.
func retrainAfterWrite(ctx context.Context, cmd *cobra.Command, st *store.Store) {
	quiet, _ := cmd.Flags().GetBool("quiet")

	var spin *spinner.Spinner
	if !quiet {
		spin = spinner.New(ctx, os.Stderr, "Retraining recommendation models...")
		spin.Start()
	}

	eng := engine.New(st)
	err := eng.Retrain(ctx)

	if spin != nil {
		spin.Stop()
	}

	if err != nil {
		slog.Warn("retrain after dataset write failed", "error", err)
		if !quiet {
			fmt.Fprintf(os.Stderr, "Warning: retraining failed: %v\n", err)
		}
	}
}

// buildDataset constructs a store.Dataset from the shared metadata flags.
func buildDataset(cmd *cobra.Command) *store.Dataset {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	pubType, _ := cmd.Flags().GetString("type")
	tags, _ := cmd.Flags().GetString("tags")
	doi, _ := cmd.Flags().GetString("doi")
	authorValues, _ := cmd.Flags().GetStringArray("author")

	return &store.Dataset{
		Title:           title,
		Description:     description,
		PublicationType: store.PublicationType(pubType),
		Tags:            tags,
		DatasetDOI:      doi,
		Authors:         parseAuthors(authorValues),
	}
}

// addMetadataFlags registers the dataset metadata flags shared by the
// add and import commands.
func addMetadataFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Dataset title (required)")
	cmd.Flags().StringP("description", "d", "", "Dataset description")
	cmd.Flags().String("type", "none", "Publication type (article, book, preprint, ...)")
	cmd.Flags().String("tags", "", "Comma-separated tags")
	cmd.Flags().String("doi", "", "Dataset DOI")
	cmd.Flags().StringArrayP("author", "a", nil, "Author as 'Name' or 'Name|Affiliation' (repeatable)")
	_ = cmd.MarkFlagRequired("title")
}

var rootCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Dataset similarity and recommendation engine",
	Long: `Recommend maintains a corpus of dataset metadata and answers
similarity queries over it. Dataset text is normalized, vectorized with
TF-IDF per metadata field, and ranked by cosine similarity.

Examples:
  recommend add -t "Urban Air Quality" --tags "air,sensors" -a "Ada Lovelace|UCL"
  recommend similar 3 --top 5
  recommend search tags "air quality"`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
	SilenceUsage: true,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a dataset and retrain the recommendation models",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds := buildDataset(cmd)
		if err := st.CreateDataset(ctx, ds); err != nil {
			return fmt.Errorf("creating dataset: %w", err)
		}
		fmt.Printf("Created dataset %d: %s\n", ds.ID, ds.Title)

		retrainAfterWrite(ctx, cmd, st)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <url|file|->",
	Short: "Import a dataset description from a web page or file",
	Long: `Import fetches a page (URL, local file, or stdin with "-"), extracts
its main content as the dataset description, and stores a new dataset with
the given metadata. The recommendation models are retrained afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		source := args[0]
		selector, _ := cmd.Flags().GetString("selector")
		quiet, _ := cmd.Flags().GetBool("quiet")

		var spin *spinner.Spinner
		if !quiet {
			spin = spinner.New(ctx, os.Stderr, "Fetching "+source+"...")
			spin.Start()
		}

		content, err := fetch.GetContent(ctx, source)
		if err != nil {
			if spin != nil {
				spin.Stop()
			}
			return fmt.Errorf("fetching %s: %w", source, err)
		}
		defer content.Close()

		// a base URL lets relative links in the page resolve during extraction
		var baseURL *url.URL
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			baseURL, _ = url.Parse(source)
		}

		if spin != nil {
			spin.UpdateMessage("Extracting description...")
		}

		description, err := extract.Description(content, selector, baseURL)
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return fmt.Errorf("extracting description from %s: %w", source, err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds := buildDataset(cmd)
		ds.Description = description
		if err := st.CreateDataset(ctx, ds); err != nil {
			return fmt.Errorf("creating dataset: %w", err)
		}
		fmt.Printf("Imported dataset %d: %s\n", ds.ID, ds.Title)

		retrainAfterWrite(ctx, cmd, st)
		return nil
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <dataset-id>",
	Short: "List the datasets most similar to the given one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		targetID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid dataset id %q: %w", args[0], err)
		}

		fieldName, _ := cmd.Flags().GetString("field")
		topN, _ := cmd.Flags().GetInt("top")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		eng := engine.New(st)
		recs, err := eng.Similar(ctx, targetID, engine.ParseField(fieldName), topN)
		if err != nil {
			return fmt.Errorf("similarity query failed: %w", err)
		}

		if asJSON {
			return printJSON(recs)
		}

		if len(recs) == 0 {
			fmt.Println("No similar datasets found.")
			return nil
		}
		for _, rec := range recs {
			line := fmt.Sprintf("%6d  %.4f  %s", rec.DatasetID, rec.SimilarityScore, rec.Title)
			if rec.DatasetDOI != "" {
				line += "  (doi: " + rec.DatasetDOI + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <field> <query...>",
	Short: "Free-text search over one metadata field",
	Long: `Search runs a stemmed free-text query against one categorical field
index (authors, tags, or affiliation).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		field := engine.ParseField(args[0])
		query := strings.Join(args[1:], " ")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		eng := engine.New(st)
		results, err := eng.SearchField(ctx, field, query, limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if asJSON {
			return printJSON(results)
		}

		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}

		titles, err := titlesByID(ctx, eng)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%6d  %.4f  %s\n", r.DatasetID, r.Score, titles[r.DatasetID])
		}
		return nil
	},
}

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Rebuild all recommendation models from the stored datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		quiet, _ := cmd.Flags().GetBool("quiet")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		var spin *spinner.Spinner
		if !quiet {
			spin = spinner.New(ctx, os.Stderr, "Retraining recommendation models...")
			spin.Start()
		}

		eng := engine.New(st)
		err = eng.Retrain(ctx)
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return fmt.Errorf("retraining failed: %w", err)
		}

		rows, err := eng.Rows(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Trained on %d datasets.\n", rows)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report corpus size statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		method := counterMethod(cmd)
		c, err := counter.NewCounter(method)
		if err != nil {
			return fmt.Errorf("initializing counter: %w", err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		eng := engine.New(st)
		rows, err := eng.Corpus(ctx)
		if err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}

		fields := []struct {
			name string
			text func(corpus.Row) string
		}{
			{"full_text_corpus", func(r corpus.Row) string { return r.FullText }},
			{"authors", func(r corpus.Row) string { return r.Authors }},
			{"tags", func(r corpus.Row) string { return r.Tags }},
			{"affiliation", func(r corpus.Row) string { return r.Affiliation }},
		}

		fmt.Printf("Datasets: %d\n", len(rows))
		for _, f := range fields {
			total := 0
			for _, row := range rows {
				total += c.Count(f.text(row))
			}
			fmt.Printf("%-18s %d %s\n", f.name, total, c.Name())
		}

		for _, field := range []engine.Field{engine.FullText, engine.Authors, engine.Tags, engine.Affiliation} {
			model, ok, err := eng.Model(ctx, field)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			fmt.Printf("%-18s %d terms\n", field.String(), model.Terms())
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <dataset-id>",
	Short: "Show one dataset with its description rendered for the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid dataset id %q: %w", args[0], err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, err := st.GetDataset(ctx, id)
		if err != nil {
			return fmt.Errorf("loading dataset %d: %w", id, err)
		}

		fmt.Printf("#%d %s\n", ds.ID, ds.Title)
		if display := ds.PublicationType.Display(); display != "" {
			fmt.Printf("Publication: %s\n", display)
		}
		for _, author := range ds.Authors {
			if author.Affiliation != "" {
				fmt.Printf("Author: %s (%s)\n", author.Name, author.Affiliation)
			} else {
				fmt.Printf("Author: %s\n", author.Name)
			}
		}
		if ds.Tags != "" {
			fmt.Printf("Tags: %s\n", ds.Tags)
		}
		if ds.DatasetDOI != "" {
			fmt.Printf("DOI: %s\n", ds.DatasetDOI)
		}

		if ds.Description != "" {
			rendered, err := extract.Render(ds.Description)
			if err != nil {
				// descriptions that fail markdown conversion print as-is
				slog.Debug("description render failed, printing raw", "error", err)
				rendered = ds.Description
			}
			fmt.Printf("\n%s\n", rendered)
		}
		return nil
	},
}

// titlesByID maps dataset ids to titles from the current corpus snapshot.
func titlesByID(ctx context.Context, eng *engine.Engine) (map[int64]string, error) {
	rows, err := eng.Corpus(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(rows))
	for _, row := range rows {
		titles[row.DatasetID] = row.Title
	}
	return titles, nil
}

// counterMethod resolves the --method flag to a counting method.
func counterMethod(cmd *cobra.Command) counter.CountingMethod {
	method, _ := cmd.Flags().GetString("method")
	switch method {
	case "words":
		return counter.Words
	case "characters":
		return counter.Characters
	default:
		return counter.Tokens
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().String("db", "recommend.db", "Path to the dataset database")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")

	addMetadataFlags(addCmd)
	addMetadataFlags(importCmd)
	importCmd.Flags().StringP("selector", "s", "", "CSS selector for the description content")

	similarCmd.Flags().StringP("field", "f", "full_text_corpus", "Field to compare on (full_text_corpus, authors, tags, affiliation)")
	similarCmd.Flags().IntP("top", "n", engine.DefaultTopN, "Maximum number of recommendations")
	similarCmd.Flags().Bool("json", false, "Output in JSON format")

	searchCmd.Flags().IntP("limit", "l", 10, "Maximum number of results")
	searchCmd.Flags().Bool("json", false, "Output in JSON format")

	statsCmd.Flags().StringP("method", "m", "tokens", "Counting method (tokens, words, characters)")

	rootCmd.AddCommand(addCmd, importCmd, similarCmd, searchCmd, retrainCmd, statsCmd, showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
