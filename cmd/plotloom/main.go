package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/plotloom/plotloom/internal/audiobook"
	"github.com/plotloom/plotloom/internal/config"
	"github.com/plotloom/plotloom/internal/extract"
	"github.com/plotloom/plotloom/internal/project"
	"github.com/plotloom/plotloom/internal/server"
	"github.com/plotloom/plotloom/internal/store"
	"github.com/plotloom/plotloom/internal/thread"
	"github.com/plotloom/plotloom/internal/workflow"
)

var version = "dev"

var (
	verbose     bool
	configPath  string
	projectRoot string
	cfg         *config.Config
	logger      zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "plotloom",
	Short:   "Serialized-novel authoring engine",
	Long:    "Plotloom tracks chapters, characters and plot threads of a serialized novel,\nand runs the review -> pre-check -> write -> finalize chapter workflow.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		root, err := filepath.Abs(projectRoot)
		if err != nil {
			return err
		}
		projectRoot = root

		// init and version work without an existing project.
		if cmd.Name() == "init" || cmd.Name() == "version" {
			cfg, err = config.LoadOrDefault(projectRoot)
			return err
		}

		if configPath != "" {
			path, err := config.ResolveConfigPath(projectRoot, configPath)
			if err != nil {
				return err
			}
			cfg, err = config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		}

		cfg, err = config.LoadOrDefault(projectRoot)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project", "p", ".", "Project root directory")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(audiobookCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func openStore() (*store.Store, func(), error) {
	dbPath := filepath.Join(cfg.DataDir(projectRoot), "plotloom.db")
	docs, err := store.OpenDocStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	st, err := store.NewStore(docs, projectRoot, logger)
	if err != nil {
		docs.Close()
		return nil, nil, err
	}
	return st, func() { docs.Close() }, nil
}

func openProject() *project.Project {
	return project.New(projectRoot, cfg, logger)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("plotloom", version)
	},
}

// --- init command ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a novel project in the project directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj := openProject()
		if err := proj.Init(); err != nil {
			return err
		}
		fmt.Printf("Initialized project %q in %s\n", cfg.Project.Name, projectRoot)
		fmt.Printf("Edit %s to configure the project, then put your outline in %s.\n",
			config.ConfigFileName, cfg.Files.Outline)
		return nil
	},
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show project status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		fmt.Printf("Project: %s (%s, %s)\n\n", cfg.Project.Name, cfg.Project.Author, cfg.Project.Genre)
		fmt.Println("Chapters:")
		fmt.Printf("  Tracked: %d\n", len(st.Summaries()))
		fmt.Printf("  Latest: %d\n", st.LatestChapterNumber())
		fmt.Println("\nCharacters:")
		fmt.Printf("  Tracked: %d\n", len(st.Characters()))
		fmt.Println("\nThreads:")
		fmt.Printf("  Total: %d\n", len(st.Threads()))
		fmt.Printf("  Active: %d\n", len(st.ActiveThreads()))
		stale := thread.Stale(st.ActiveThreads(), st.LatestChapterNumber())
		fmt.Printf("  Stale: %d\n", len(stale))
		return nil
	},
}

// --- import command ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import chapters, characters and threads from the narrative log",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		doc, err := openProject().ReadLog()
		if err != nil {
			return err
		}

		res, err := extract.NewImporter(st, logger).ImportLog(doc)
		if err != nil {
			return err
		}

		fmt.Println("Import complete:")
		fmt.Printf("  Chapters: %d (skipped %d)\n", res.Chapters, res.Skipped)
		fmt.Printf("  New characters: %d\n", res.Characters)
		fmt.Printf("  New threads: %d\n", res.Threads)
		return nil
	},
}

// --- write command ---

var (
	writeChapter int
	writeTitle   string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Run the chapter workflow: review -> pre-check -> write -> finalize",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		wc := &workflow.Context{
			Store:        st,
			Project:      openProject(),
			Config:       cfg,
			ChapterNum:   writeChapter,
			ChapterTitle: writeTitle,
		}

		engine := workflow.Default(logger, nil)
		if err := engine.Run(context.Background(), wc); err != nil {
			return err
		}

		fmt.Printf("Chapter %d finalized.\n", wc.ChapterNum)
		fmt.Printf("  File: %s\n", wc.SavedPath)
		fmt.Printf("  Words: %d\n", wc.Summary.WordCount)
		if wc.Check != nil && len(wc.Check.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for _, warn := range wc.Check.Warnings {
				fmt.Printf("  - %s\n", warn)
			}
		}
		return nil
	},
}

func init() {
	writeCmd.Flags().IntVar(&writeChapter, "chapter", 0, "Chapter number (default: next chapter)")
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Chapter title")
}

// --- threads command ---

var staleOnly bool

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List plot threads",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		threads := st.Threads()
		if staleOnly {
			threads = thread.Stale(st.ActiveThreads(), st.LatestChapterNumber())
		}
		if len(threads) == 0 {
			fmt.Println("No threads.")
			return nil
		}

		for _, th := range threads {
			fmt.Printf("%-10s [%s/%s] ch%d-%d  %s\n",
				th.ID, th.Status, th.Priority, th.FirstChapter, th.LastChapter, th.Description)
		}
		return nil
	},
}

func init() {
	threadsCmd.Flags().BoolVar(&staleOnly, "stale", false, "Show only stale active threads")
}

// --- audiobook command ---

var audiobookVolume int

var audiobookCmd = &cobra.Command{
	Use:   "audiobook [chapter file]",
	Short: "Generate narrated audio for a chapter file or a whole volume",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := audiobook.NewGenerator(audiobook.NewClient(cfg.TTS), logger)
		ctx := context.Background()

		if len(args) == 1 {
			out, err := gen.Chapter(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		}

		if audiobookVolume <= 0 {
			return fmt.Errorf("pass a chapter file or --volume N")
		}

		dir := filepath.Join(projectRoot, fmt.Sprintf("第%d卷", audiobookVolume))
		res, err := gen.Volume(ctx, dir)
		if err != nil {
			return err
		}
		fmt.Printf("Volume %d: %d generated, %d skipped, %d failed\n",
			audiobookVolume, res.Generated, res.Skipped, res.Failed)
		return nil
	},
}

func init() {
	audiobookCmd.Flags().IntVar(&audiobookVolume, "volume", 0, "Narrate every chapter in this volume")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(st, openProject(), logger, port)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to run server on (default from config)")
}
