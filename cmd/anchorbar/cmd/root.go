package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anchorbar/internal/adapters/filesystem"
	"anchorbar/internal/adapters/freesurfer"
	"anchorbar/internal/adapters/sqlite"
	"anchorbar/internal/config"
	"anchorbar/internal/logger"
	"anchorbar/internal/ports"
)

var (
	settings *config.Settings
	log      *logger.Logger
	catalog  *sqlite.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "anchorbar",
	Short: "Catalog FreeSurfer annotations and combine them",
	Long: `anchorbar imports FreeSurfer .annot surface annotations into a SQLite
catalog and builds new annotations from two stored ones, either by
intersecting their labels vertex by vertex or by taking their union.

The catalog database is given with --db or ANCHORBAR_DB.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		v := config.New()
		if err := config.BindFlags(v, cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		s, err := config.Load(v)
		if err != nil {
			return err
		}
		if err := s.RequireDB(); err != nil {
			return err
		}

		l, err := logger.New(s.LogMode)
		if err != nil {
			return err
		}

		c := sqlite.NewCatalog(l)
		if err := c.Open(s.DBPath); err != nil {
			return err
		}

		settings, log, catalog = s, l, c
		log.Debug("catalog opened", "db", s.DBPath)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeCatalog()
	},
}

func closeCatalog() error {
	if log != nil {
		defer log.Sync()
	}
	if catalog == nil {
		return nil
	}
	err := catalog.Close()
	catalog = nil
	return err
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRunE does not run when a command fails
	if closeErr := closeCatalog(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "path to the catalog database (env ANCHORBAR_DB)")
	flags.String("log-mode", logger.ModeDev, "logging mode: dev, debug, prod or quiet")
	flags.Int("vertex-count", 0, "vertices of the surface mesh (default 163842)")
	flags.String("out-dir", "", "directory for written annotation files (default \".\")")

	rootCmd.AddGroup(
		&cobra.Group{ID: "import", Title: "Import:"},
		&cobra.Group{ID: "setops", Title: "Set operations:"},
		&cobra.Group{ID: "catalog", Title: "Catalog:"},
	)
}

// GetCatalog returns the opened catalog
func GetCatalog() ports.Catalog {
	return catalog
}

func codec() ports.AnnotationCodec {
	return freesurfer.NewCodec()
}

func sources() ports.SourceFiles {
	return filesystem.NewSources()
}
