// Package main provides the entry point for the sweepview application.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	appkg "sweepview/internal/app"
	"sweepview/internal/config"
	"sweepview/internal/dataset"
	"sweepview/internal/version"
	"sweepview/ui/mainwindow"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
)

const appID = "sweepview"

// options holds the command line flags.
type options struct {
	files        []string
	dir          string
	configPath   string
	palette      string
	watch        bool
	allowPartial bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "sweepview",
		Short: "Interactive heatmap viewer for two-parameter sweep data",
		Long: `sweepview reconstructs the 2-D grid of a two-parameter sweep from its
tab-separated data file and opens one viewer window per file, with
cross-section profiles of the hovered row and column and a color range slider.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			files, err := collectFiles(opts.files, opts.dir, cfg.Input.Extension)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no data files given; use --file or --dir")
			}
			return run(cfg, files)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.files, "file", "f", nil, "data file to open (repeatable)")
	flags.StringVarP(&opts.dir, "dir", "d", "", "open every data file in this directory")
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.palette, "palette", "", "heatmap palette")
	flags.BoolVar(&opts.watch, "watch", false, "reload files when they change")
	flags.BoolVar(&opts.allowPartial, "allow-partial", false, "drop an incomplete trailing cycle instead of failing")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	})
	return cmd
}

// loadConfig reads the config file and applies the flags given on the
// command line over it.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("palette") {
		cfg.View.Palette = opts.palette
	}
	if flags.Changed("watch") {
		cfg.Watch.Enabled = opts.watch
	}
	if flags.Changed("allow-partial") {
		cfg.Input.AllowPartial = opts.allowPartial
	}
	return cfg, nil
}

// collectFiles returns the explicit files followed by the matches in dir.
func collectFiles(files []string, dir, ext string) ([]string, error) {
	out := append([]string(nil), files...)
	if dir == "" {
		return out, nil
	}
	matches, err := dataset.Glob(dir, ext)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		log.Printf("load: no %s files in %s", ext, dir)
	}
	return append(out, matches...), nil
}

func run(cfg *config.Config, files []string) error {
	log.Printf("Starting %s", version.String())

	a := app.NewWithID(appID)
	a.Settings().SetTheme(&appkg.SweepViewTheme{})

	session := mainwindow.NewSession(a, cfg)
	if err := session.OpenAll(files); err != nil && session.Len() == 0 {
		return fmt.Errorf("no file could be opened: %w", err)
	}

	session.ShowAll()
	a.Run()
	session.Close()
	return nil
}
