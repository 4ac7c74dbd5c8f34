package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/fulmenhq/contentpacks/pkg/config"
	"github.com/fulmenhq/contentpacks/pkg/ignore"
	"github.com/fulmenhq/contentpacks/pkg/importer"
	"github.com/fulmenhq/contentpacks/pkg/safeio"
)

// loadConfig reads configuration, honoring the global --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}
	return cfg, nil
}

// openSource roots a filesystem at the parent of dir so the sidecar of the
// import directory itself (<dir>.json) is readable, and returns the
// directory's name within it.
func openSource(dir string) (billy.Filesystem, string, error) {
	if dir == "" {
		return nil, "", fmt.Errorf("%w: import path is required", importer.ErrInvalidInput)
	}
	clean, err := safeio.CleanUserPath(dir)
	if err != nil {
		return nil, "", fmt.Errorf("%w: import path %s: %v", importer.ErrInvalidInput, dir, err)
	}
	abs, err := filepath.Abs(filepath.FromSlash(clean))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", importer.ErrInvalidInput, dir, err)
	}
	parent, base := filepath.Dir(abs), filepath.Base(abs)
	if parent == abs {
		// filesystem root has no parent to hold a sidecar
		return osfs.New(abs), ".", nil
	}
	return osfs.New(parent), base, nil
}

// newImporter wires the ignore rules from cfg around an importer over fsys.
func newImporter(fsys billy.Filesystem, root string, cfg *config.Config, opts importer.Options) (*importer.Importer, error) {
	matcher, err := ignore.NewMatcher(fsys, root, cfg.Import.IgnoreFile, cfg.Import.Exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}
	if !matcher.Empty() {
		opts.Ignore = matcher
	}
	opts.ValidateMetadata = cfg.Import.ValidateMetadata
	return importer.New(fsys, opts), nil
}
