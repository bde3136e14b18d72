package catalog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Resolver maps human-friendly work names (titles, user aliases) to TLG work
// identifiers. Aliases come from three layers, later layers overriding
// earlier ones: titles harvested from the catalog, the user alias file, and
// the project alias file.
type Resolver struct {
	catalog *Catalog
	aliases map[string]string
	log     *zap.Logger
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// NewResolver builds a resolver over the catalog. Either alias path may be
// empty; missing or malformed alias files are skipped with a warning.
func NewResolver(cat *Catalog, userAliases, projectAliases string, log *zap.Logger) *Resolver {
	r := &Resolver{catalog: cat, aliases: make(map[string]string), log: log}
	r.harvestTitles()
	r.loadAliasFile(userAliases)
	r.loadAliasFile(projectAliases)
	return r
}

// Resolve maps a work name to its TLG ID. A name already in TLG ID form is
// passed through unchanged; lookup is case-insensitive.
func (r *Resolver) Resolve(name string) (string, error) {
	if isTLGID(name) {
		return name, nil
	}
	if id, ok := r.aliases[strings.ToLower(name)]; ok {
		return id, nil
	}
	return "", &WorkNotFoundError{
		WorkID:     name,
		Suggestion: "could not resolve work name, try the full TLG ID (e.g. tlg0059.tlg001) or add an alias",
	}
}

// ResolvePath resolves a name all the way to the edition file path.
func (r *Resolver) ResolvePath(name string) (string, error) {
	id, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return r.catalog.ResolveWorkID(id)
}

// Aliases returns the resolved alias table, for diagnostics.
func (r *Resolver) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

func isTLGID(name string) bool {
	parts := strings.Split(name, ".")
	return len(parts) == 2 && strings.HasPrefix(parts[0], "tlg") && strings.HasPrefix(parts[1], "tlg")
}

func (r *Resolver) harvestTitles() {
	authors, err := r.catalog.Authors()
	if err != nil {
		r.log.Warn("Unable to harvest work titles for aliases", zap.Error(err))
		return
	}
	for _, author := range authors {
		works, err := r.catalog.Works(author.ID)
		if err != nil {
			r.log.Warn("Unable to harvest work titles for aliases", zap.String("author", author.ID), zap.Error(err))
			continue
		}
		for _, work := range works {
			if len(work.TitleEN) > 0 {
				r.aliases[strings.ToLower(work.TitleEN)] = work.FullID()
			}
			if len(work.TitleGRC) > 0 {
				r.aliases[strings.ToLower(work.TitleGRC)] = work.FullID()
			}
		}
	}
}

func (r *Resolver) loadAliasFile(path string) {
	if len(path) == 0 {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("Unable to read alias file", zap.String("file", path), zap.Error(err))
		}
		return
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		r.log.Warn("Ignoring malformed alias file", zap.String("file", path), zap.Error(err))
		return
	}
	for alias, id := range f.Aliases {
		r.aliases[strings.ToLower(alias)] = id
	}
}
