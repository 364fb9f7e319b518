// Package linkverify checks that the internal references in an emitted site
// actually resolve to files inside the output tree.
package linkverify

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrVerifyFailed is wrapped around any failure while reading or parsing the
// output tree. Broken links are reported as Issues, not as errors.
var ErrVerifyFailed = errors.New("link verification failed")

// Issue describes one broken internal reference.
type Issue struct {
	Page   string // Output document containing the reference, relative to the site root
	URL    string // The reference as written
	Target string // Resolved path relative to the site root
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s -> %s (missing)", i.Page, i.URL, i.Target)
}

// Verify walks every HTML document under siteDir and checks that each
// internal href and src resolves to an existing file. Issues come back
// sorted by page and reference for stable reporting.
func Verify(siteDir string) ([]Issue, error) {
	files := map[string]struct{}{}
	var docs []string

	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		files[rel] = struct{}{}
		if strings.HasSuffix(rel, ".html") {
			docs = append(docs, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerifyFailed, err)
	}

	var issues []Issue
	for _, doc := range docs {
		pageIssues, err := verifyDoc(siteDir, doc, files)
		if err != nil {
			return nil, err
		}
		issues = append(issues, pageIssues...)
	}

	sort.Slice(issues, func(a, b int) bool {
		if issues[a].Page != issues[b].Page {
			return issues[a].Page < issues[b].Page
		}
		return issues[a].URL < issues[b].URL
	})
	return issues, nil
}

func verifyDoc(siteDir, doc string, files map[string]struct{}) ([]Issue, error) {
	f, err := os.Open(filepath.Join(siteDir, filepath.FromSlash(doc)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrVerifyFailed, doc, err)
	}
	defer f.Close()

	links, err := extractLinks(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrVerifyFailed, doc, err)
	}

	var issues []Issue
	for _, link := range links {
		if !isVerifiable(link.URL) {
			continue
		}
		target, ok := resolveTarget(doc, link.URL)
		if !ok {
			continue
		}
		if _, exists := files[target]; !exists {
			issues = append(issues, Issue{Page: doc, URL: link.URL, Target: target})
		}
	}
	return issues, nil
}

// resolveTarget turns a reference found in doc into a path relative to the
// site root, dropping any query string or fragment. References that escape
// the site root resolve to false and are left alone.
func resolveTarget(doc, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "", false
	}
	var target string
	if strings.HasPrefix(u.Path, "/") {
		// Root-relative references resolve against the site root.
		target = path.Clean(strings.TrimPrefix(u.Path, "/"))
	} else {
		target = path.Join(path.Dir(doc), u.Path)
	}
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}
