// Package discovery scans the input tree for Markdown documents and resolves
// the optional ordering configuration against them, producing the ordered
// page list and the section tree consumed by navigation and rendering.
package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/wikibuilder/internal/config"
	"git.home.luguber.info/inful/wikibuilder/internal/logfields"
	"git.home.luguber.info/inful/wikibuilder/internal/markdown"
	"git.home.luguber.info/inful/wikibuilder/internal/wiki"
)

// Discovery locates pages under an input root and applies an optional config.
type Discovery struct {
	inputDir string
	cfg      *config.Config // nil when no config was supplied
}

// New creates a Discovery for inputDir. cfg may be nil.
func New(inputDir string, cfg *config.Config) *Discovery {
	return &Discovery{inputDir: inputDir, cfg: cfg}
}

// Discover enumerates every Markdown file under the input root and returns
// the ordered page list plus the section tree, which is nil for flat layouts.
//
// Ordering: config-referenced pages first in declared order, then every
// unconfigured page sorted lexicographically by its relative key. The section
// tree mirrors the config's nesting when one is given; otherwise it is
// derived from the directory structure.
func (d *Discovery) Discover() ([]wiki.Page, []*wiki.Section, error) {
	files, err := d.enumerate()
	if err != nil {
		return nil, nil, err
	}

	r := newResolver(d.inputDir, files)

	var sections []*wiki.Section
	switch {
	case d.cfg != nil && d.cfg.IsHierarchical():
		sections = make([]*wiki.Section, 0, len(d.cfg.Sections))
		for _, sc := range d.cfg.Sections {
			sec, err := r.buildSection(sc)
			if err != nil {
				return nil, nil, err
			}
			sections = append(sections, sec)
		}
	case d.cfg != nil && len(d.cfg.Pages) > 0:
		for _, ref := range d.cfg.Pages {
			if _, err := r.claim(ref); err != nil {
				return nil, nil, err
			}
		}
	}

	// Any discovered file not claimed by config is appended in key order,
	// keeping unconfigured corpora deterministic.
	for _, f := range files {
		if _, taken := r.seen[f.key]; taken {
			continue
		}
		if err := r.appendPage(f, ""); err != nil {
			return nil, nil, err
		}
	}

	if len(r.pages) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoPagesFound, d.inputDir)
	}
	checkSlugCollisions(r.pages)

	if sections == nil {
		sections = deriveSections(r.pages)
	}
	return r.pages, sections, nil
}

// sourceFile is one enumerated Markdown file.
type sourceFile struct {
	key     string // relative path without extension, slash-separated
	relPath string // relative path including extension
	absPath string
}

// enumerate walks the input tree collecting Markdown files, sorted by key.
// Hidden files and directories are skipped.
func (d *Discovery) enumerate() ([]sourceFile, error) {
	var files []sourceFile
	err := filepath.WalkDir(d.inputDir, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(entry.Name(), ".") && p != d.inputDir {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(p), wiki.SourceExtension) {
			return nil
		}
		rel, err := filepath.Rel(d.inputDir, p)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWalkFailed, err)
		}
		rel = filepath.ToSlash(rel)
		files = append(files, sourceFile{
			key:     strings.TrimSuffix(rel, path.Ext(rel)),
			relPath: rel,
			absPath: p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, d.inputDir, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].key < files[j].key })
	return files, nil
}

// resolver materializes pages from config references and fallback files,
// tracking which keys have already produced a page.
type resolver struct {
	inputDir string
	byKey    map[string]sourceFile // relative key -> file
	byBase   map[string]sourceFile // base name -> file, first registration wins
	seen     map[string]struct{}
	pages    []wiki.Page
}

func newResolver(inputDir string, files []sourceFile) *resolver {
	r := &resolver{
		inputDir: inputDir,
		byKey:    make(map[string]sourceFile, len(files)),
		byBase:   make(map[string]sourceFile, len(files)),
		seen:     make(map[string]struct{}),
	}
	for _, f := range files {
		r.byKey[f.key] = f
		base := path.Base(f.key)
		if _, exists := r.byBase[base]; !exists {
			r.byBase[base] = f
		}
	}
	return r
}

// lookup resolves a config reference to an enumerated file: exact relative
// key first, then match by base name alone.
func (r *resolver) lookup(ref string) (sourceFile, bool) {
	clean := strings.TrimSuffix(filepath.ToSlash(ref), wiki.SourceExtension)
	if f, ok := r.byKey[clean]; ok {
		return f, true
	}
	if f, ok := r.byBase[path.Base(clean)]; ok {
		return f, true
	}
	return sourceFile{}, false
}

// claim resolves ref and materializes its page once. The returned slug is
// empty when the reference could not be resolved (warned, not fatal) or when
// the key was already claimed by an earlier reference.
func (r *resolver) claim(ref config.PageRef) (string, error) {
	f, ok := r.lookup(ref.File)
	if !ok {
		slog.Warn("Config references a file that was not found", logfields.File(ref.File))
		return "", nil
	}
	if _, taken := r.seen[f.key]; taken {
		return "", nil
	}
	if err := r.appendPage(f, ref.Title); err != nil {
		return "", err
	}
	return r.pages[len(r.pages)-1].Slug, nil
}

func (r *resolver) appendPage(f sourceFile, titleOverride string) error {
	content, err := os.ReadFile(f.absPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, f.relPath, err)
	}
	title := titleOverride
	if title == "" {
		stem := path.Base(f.key)
		title = markdown.ExtractTitle(string(content), stem)
	}
	sectionPath := path.Dir(f.relPath)
	if sectionPath == "." {
		sectionPath = ""
	}
	r.pages = append(r.pages, wiki.Page{
		SourcePath:  f.relPath,
		OutputPath:  wiki.OutputPathFor(f.relPath),
		Title:       title,
		Slug:        wiki.Slugify(f.key),
		SectionPath: sectionPath,
	})
	r.seen[f.key] = struct{}{}
	return nil
}

// buildSection materializes one config section bottom-up: its own pages in
// declared order, then fully constructed subsections.
func (r *resolver) buildSection(sc config.Section) (*wiki.Section, error) {
	sec := &wiki.Section{Title: sc.Title}
	for _, ref := range sc.Pages {
		slug, err := r.claim(ref)
		if err != nil {
			return nil, err
		}
		if slug != "" {
			sec.Pages = append(sec.Pages, slug)
		}
	}
	for _, sub := range sc.Subsections {
		child, err := r.buildSection(sub)
		if err != nil {
			return nil, err
		}
		sec.Subsections = append(sec.Subsections, child)
	}
	return sec, nil
}

// deriveSections groups pages by their section path when no config supplied a
// tree. Root-level pages form a leading "Overview" section when subdirectory
// groups exist; each subdirectory becomes a section sorted by directory name,
// pages in discovery order. A fully flat corpus yields no tree at all.
func deriveSections(pages []wiki.Page) []*wiki.Section {
	groups := make(map[string][]string)
	var rootSlugs []string
	for _, p := range pages {
		if p.SectionPath == "" {
			rootSlugs = append(rootSlugs, p.Slug)
			continue
		}
		groups[p.SectionPath] = append(groups[p.SectionPath], p.Slug)
	}
	if len(groups) == 0 {
		return nil
	}

	var sections []*wiki.Section
	if len(rootSlugs) > 0 {
		sections = append(sections, &wiki.Section{Title: "Overview", Pages: rootSlugs})
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		sections = append(sections, &wiki.Section{
			Title: wiki.PrettifySectionName(dir),
			Pages: groups[dir],
		})
	}
	return sections
}

// checkSlugCollisions logs a warning for every pair of source paths that
// collapse to the same slug. Behavior past the warning is unspecified; the
// later page wins wherever slugs key a lookup.
func checkSlugCollisions(pages []wiki.Page) {
	bySlug := make(map[string]string, len(pages))
	for _, p := range pages {
		if prev, dup := bySlug[p.Slug]; dup {
			slog.Warn("Two source paths collapse to the same slug",
				logfields.Slug(p.Slug),
				slog.String("first", prev),
				slog.String("second", p.SourcePath))
		}
		bySlug[p.Slug] = p.SourcePath
	}
}
