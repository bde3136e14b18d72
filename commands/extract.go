// Package commands implements the subcommand actions wired into the CLI.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ptx/archive"
	"ptx/catalog"
	"ptx/config"
	"ptx/output"
	"ptx/render"
	"ptx/segment"
	"ptx/state"
	"ptx/stephanus"
	"ptx/tei"
)

// Extract handles the extract subcommand: one work in, rendered text or
// serialized segments out.
func Extract(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("extract")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no work has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	env.CorpusName, env.Overwrite = cmd.String("corpus"), cmd.Bool("overwrite")

	style, err := render.ParseStyle(styleOrDefault(cmd.String("style"), env.Cfg))
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatOrDefault(cmd.String("format"), env.Cfg))
	if err != nil {
		return err
	}

	log.Info("Extraction starting", zap.String("work", src), zap.Stringer("style", style), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Extraction completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	doc, workID, err := loadWork(env, src, log)
	if err != nil {
		return err
	}

	segments, err := segment.Extract(doc, log)
	if err != nil {
		return err
	}

	rangeSpec := cmd.String("range")
	if len(rangeSpec) > 0 {
		if segments, err = stephanus.FilterSegments(segments, rangeSpec, workID); err != nil {
			return err
		}
	}

	r := render.Renderer{
		Title:    doc.Title(),
		AuthorID: doc.AuthorID(),
		Layout:   layoutFromConfig(env.Cfg),
	}
	meta := output.NewMetadata(workID, doc.Title(), doc.AuthorID(), rangeSpec, style)
	text, err := output.NewWriter(format, r, style).Write(segments, meta)
	if err != nil {
		return err
	}

	return writeResult(env, cmd.String("output"), text, output.PathValues{
		WorkID:   workID,
		Title:    doc.Title(),
		AuthorID: doc.AuthorID(),
		Range:    rangeSpec,
		Style:    style.String(),
		Format:   format.String(),
	}, format, log)
}

// loadWork turns the source argument into a parsed TEI document. Accepted
// forms: a path to a TEI file, a path inside a zip archive
// ("corpus.zip/data/.../file.xml"), or a work name resolved through the
// catalog.
func loadWork(env *state.LocalEnv, src string, log *zap.Logger) (*tei.Document, string, error) {
	if fi, err := os.Stat(src); err == nil && fi.Mode().IsRegular() {
		doc, err := tei.Load(src)
		if err != nil {
			return nil, "", err
		}
		return doc, workIDFromPath(src), nil
	}

	if arcPath, entry, ok := splitArchivePath(src); ok {
		data, err := archive.ReadFile(arcPath, entry)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read from archive: %w", err)
		}
		doc, err := tei.Parse(bytes.NewReader(data), entry)
		if err != nil {
			return nil, "", err
		}
		return doc, workIDFromPath(entry), nil
	}

	cat, err := openCatalog(env, log)
	if err != nil {
		return nil, "", err
	}
	defer cat.Close()

	resolver := catalog.NewResolver(cat, env.Cfg.Catalog.UserAliases, env.Cfg.Catalog.ProjectAliases, log)
	workID, err := resolver.Resolve(src)
	if err != nil {
		return nil, "", err
	}
	path, err := cat.ResolveWorkID(workID)
	if err != nil {
		return nil, "", err
	}
	doc, err := tei.Load(path)
	if err != nil {
		return nil, "", err
	}
	return doc, workID, nil
}

// splitArchivePath recognizes "path/to/archive.zip/entry/inside" sources.
func splitArchivePath(src string) (arcPath, entry string, ok bool) {
	for head := src; len(head) != 0; head, _ = filepath.Split(head) {
		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist, probably path continues inside an archive
			continue
		}
		if !fi.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(head), ".zip") {
			return "", "", false
		}
		entry = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
		return head, filepath.ToSlash(entry), len(entry) > 0
	}
	return "", "", false
}

// workIDFromPath recovers "tlg####.tlg###" from an edition file name like
// tlg0059.tlg001.perseus-grc2.xml, falling back to the bare file name.
func workIDFromPath(path string) string {
	base := filepath.Base(path)
	parts := strings.Split(base, ".")
	if len(parts) >= 2 && strings.HasPrefix(parts[0], "tlg") && strings.HasPrefix(parts[1], "tlg") {
		return parts[0] + "." + parts[1]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func openCatalog(env *state.LocalEnv, log *zap.Logger) (*catalog.Catalog, error) {
	corpus := env.Cfg.DefaultCorpus()
	if len(env.CorpusName) > 0 {
		if corpus = env.Cfg.Corpus(env.CorpusName); corpus == nil {
			return nil, fmt.Errorf("corpus %q is not configured", env.CorpusName)
		}
	}
	if corpus == nil {
		return nil, errors.New("no corpus has been configured")
	}
	return catalog.New(corpus.Path, env.Cfg.Catalog.CachePath, log)
}

func layoutFromConfig(cfg *config.Config) render.Layout {
	l := render.DefaultLayout()
	if cfg.Document.Layout.WrapWidth > 0 {
		l.WrapWidth = cfg.Document.Layout.WrapWidth
	}
	if cfg.Document.Layout.ColumnWidth > 0 {
		l.ColumnWidth = cfg.Document.Layout.ColumnWidth
	}
	if cfg.Document.Layout.MarginWidth > 0 {
		l.MarginWidth = cfg.Document.Layout.MarginWidth
	}
	return l
}

func styleOrDefault(flag string, cfg *config.Config) string {
	if len(flag) > 0 {
		return flag
	}
	if len(cfg.Document.Style) > 0 {
		return cfg.Document.Style
	}
	return "full_modern"
}

func formatOrDefault(flag string, cfg *config.Config) string {
	if len(flag) > 0 {
		return flag
	}
	if len(cfg.Document.Format) > 0 {
		return cfg.Document.Format
	}
	return "text"
}

// writeResult sends text to stdout when no output directory is requested,
// otherwise builds the destination path from configuration and writes a file.
func writeResult(env *state.LocalEnv, outDir, text string, values output.PathValues, format output.Format, log *zap.Logger) error {
	if len(outDir) == 0 {
		_, err := fmt.Println(text)
		return err
	}

	path := output.BuildPath(outDir, env.Cfg.Document.OutputNameTemplate, values, format,
		env.Cfg.Document.FileNameTransliterate, log)
	return writeResultFile(env, path, text, log)
}

func writeResultFile(env *state.LocalEnv, path, text string, log *zap.Logger) error {
	if _, err := os.Stat(path); err == nil && !env.Overwrite {
		return fmt.Errorf("destination already exists, use --overwrite to replace: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	log.Info("Output written", zap.String("file", path))
	return nil
}
