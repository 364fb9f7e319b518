package wiki

// Section is a named grouping node in the navigation tree. The tree is built
// bottom-up during discovery and never mutated afterwards, so containment
// searches are safe to reuse across page renders.
type Section struct {
	Title       string
	Pages       []string // Page slugs in declared order
	Subsections []*Section
}

// Contains reports whether slug appears in this section or any descendant.
func (s *Section) Contains(slug string) bool {
	for _, p := range s.Pages {
		if p == slug {
			return true
		}
	}
	for _, sub := range s.Subsections {
		if sub.Contains(slug) {
			return true
		}
	}
	return false
}

// CollectSlugs adds every slug claimed by this section or a descendant to dst.
func (s *Section) CollectSlugs(dst map[string]struct{}) {
	for _, p := range s.Pages {
		dst[p] = struct{}{}
	}
	for _, sub := range s.Subsections {
		sub.CollectSlugs(dst)
	}
}

// SectionedSlugs returns the set of slugs claimed anywhere in the tree.
func SectionedSlugs(sections []*Section) map[string]struct{} {
	claimed := make(map[string]struct{})
	for _, sec := range sections {
		sec.CollectSlugs(claimed)
	}
	return claimed
}

// FindTrail depth-first searches sections for the first one whose own page
// list contains slug, returning the chain of section titles from the root to
// that section. Sections are tried in declared order, each section's
// subsections before its next sibling. The second return is false when no
// section claims the slug.
func FindTrail(sections []*Section, slug string) ([]string, bool) {
	for _, sec := range sections {
		for _, p := range sec.Pages {
			if p == slug {
				return []string{sec.Title}, true
			}
		}
		if trail, ok := FindTrail(sec.Subsections, slug); ok {
			return append([]string{sec.Title}, trail...), true
		}
	}
	return nil, false
}
