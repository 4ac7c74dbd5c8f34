package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/fulmenhq/contentpacks/internal/ops"
	"github.com/fulmenhq/contentpacks/pkg/ascii"
	"github.com/fulmenhq/contentpacks/pkg/config"
	"github.com/fulmenhq/contentpacks/pkg/importer"
	"github.com/fulmenhq/contentpacks/pkg/logger"
	"github.com/fulmenhq/contentpacks/pkg/pack"
	"github.com/fulmenhq/contentpacks/pkg/safeio"
	"github.com/fulmenhq/contentpacks/pkg/staging"
)

var importCmd = &cobra.Command{
	Use:   "import <lang> <version> <path> <channel>",
	Short: "Build a content pack from a directory",
	Long: `Import walks a directory of learning material and writes a content pack.

Directories become topics, recognized files become videos, documents,
audio and exercises. Sidecar files named <entry>.json supply titles,
descriptions and other metadata. Leaf payloads are staged under the build
directory and bundled together with the content tree, the assessment items
and the pack metadata into a single zip file.

Examples:
  contentpacks import en 0.17 ./course "My Channel"
  contentpacks import pt-BR 0.17 ./curso Curso --out packs/pt-BR.zip
  contentpacks import en 0.17 ./course "My Channel" --no-assessment-resources --publish`,
	Args: cobra.ExactArgs(4),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("out", "", "Output pack file (default: <lang>.zip)")
	importCmd.Flags().String("build-dir", "", "Staging directory for payloads (default: build)")
	importCmd.Flags().Bool("no-assessment-items", false, "Leave assessment items out of the pack")
	importCmd.Flags().Bool("no-assessment-resources", false, "Leave exercise resource files out of the pack")
	importCmd.Flags().Bool("publish", false, "Upload the pack to the configured object storage")

	if err := ops.RegisterCommand("import", ops.GroupBuild, importCmd, "Build a content pack from a directory"); err != nil {
		panic(fmt.Sprintf("Failed to register import command: %v", err))
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyImportFlags(cmd, cfg); err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts := pack.Options{
		Language:        args[0],
		SoftwareVersion: args[1],
		Channel:         args[3],
	}
	opts.NoAssessmentItems, _ = cmd.Flags().GetBool("no-assessment-items")
	opts.NoAssessmentResources, _ = cmd.Flags().GetBool("no-assessment-resources")
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: %v", importer.ErrInvalidInput, err)
	}

	src, root, err := openSource(args[2])
	if err != nil {
		return err
	}

	var out billy.Filesystem
	if dryRun {
		out = memfs.New()
	} else {
		out = osfs.New(cfg.Build.Dir)
	}
	content := staging.NewContentStage(out, staging.ContentDir)
	assessment := staging.NewAssessmentCache(out, staging.AssessmentDir)

	im, err := newImporter(src, root, cfg, importer.Options{Stage: content, Assets: assessment})
	if err != nil {
		return err
	}
	logger.Info("Importing directory",
		logger.String("path", args[2]),
		logger.String("channel", opts.Channel),
		logger.String("language", opts.Language))
	res, err := im.Run(root, opts.Channel)
	if err != nil {
		return err
	}
	if staged, err := content.List(); err == nil {
		logger.Debug("Staged content payloads", logger.Int("count", len(staged)), logger.String("dir", cfg.Build.ContentDir()))
	}

	meta := pack.NewMetadata(opts, res, time.Now())
	contents := pack.Contents{
		Options:    opts,
		Metadata:   meta,
		Result:     res,
		Content:    content,
		Assessment: assessment,
	}

	outFile := cfg.Pack.OutFile(opts.Language)
	if dryRun {
		if err := pack.Bundle(io.Discard, contents); err != nil {
			return err
		}
		logger.Info("Dry run complete, no pack written", logger.String("out", outFile))
	} else {
		if err := writePack(outFile, contents); err != nil {
			return err
		}
		logger.Info("Pack written", logger.String("out", outFile), logger.String("build_id", meta.BuildID))

		publish, _ := cmd.Flags().GetBool("publish")
		if publish || cfg.Publish.Enabled {
			key, err := publishPack(cmd, cfg, opts.Language, outFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published: %s\n", key)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), ascii.Box([]string{
		fmt.Sprintf("Pack:             %s", outFile),
		fmt.Sprintf("Language:         %s (%s)", meta.Name, meta.Code),
		fmt.Sprintf("Channel:          %s", meta.Channel),
		fmt.Sprintf("Topics:           %d", res.CountKind(importer.KindTopic)),
		fmt.Sprintf("Videos:           %d", meta.VideoCount),
		fmt.Sprintf("Content items:    %d", meta.ContentCount),
		fmt.Sprintf("Assessment items: %d", meta.AssessmentItemCount),
	}))
	return nil
}

// applyImportFlags lets explicitly set flags override configuration.
// Output locations may not climb out of the working directory.
func applyImportFlags(cmd *cobra.Command, cfg *config.Config) error {
	for _, target := range []struct {
		flag string
		dst  *string
	}{
		{"out", &cfg.Pack.Out},
		{"build-dir", &cfg.Build.Dir},
	} {
		f := cmd.Flags().Lookup(target.flag)
		if f == nil || !f.Changed {
			continue
		}
		clean, err := safeio.CleanUserPath(f.Value.String())
		if err != nil {
			return fmt.Errorf("%w: --%s %s: %v", importer.ErrInvalidInput, target.flag, f.Value.String(), err)
		}
		*target.dst = filepath.FromSlash(clean)
	}
	return nil
}

// writePack bundles into a temporary file next to dst and renames it into place.
func writePack(dst string, c pack.Contents) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp pack: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := pack.Bundle(tmp, c); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp pack: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("rename pack: %w", err)
	}
	return nil
}

func publishPack(cmd *cobra.Command, cfg *config.Config, language, file string) (string, error) {
	p := cfg.Publish
	publisher, err := pack.NewPublisher(pack.PublishConfig{
		Endpoint:  p.Endpoint,
		Region:    p.Region,
		AccessKey: p.AccessKey,
		SecretKey: p.SecretKey,
		Bucket:    p.Bucket,
		Prefix:    p.Prefix,
		UseSSL:    p.UseSSL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errConfig, err)
	}
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return publisher.Publish(cmd.Context(), language, file, f, info.Size())
}
