package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no site file exists for the requested or fallback language.
var ErrNotFound = errors.New("content: not found")

// Store loads site.<lang>.yaml files from a filesystem and caches the parsed result.
type Store struct {
	fsys     fs.FS
	dir      string
	fallback string
	reload   bool

	mu    sync.RWMutex
	cache map[string]*Site
}

// NewStore returns a store reading from dir within fsys. With reload set every call
// re-reads the file, which suits editing copy locally.
func NewStore(fsys fs.FS, dir, fallback string, reload bool) *Store {
	return &Store{
		fsys:     fsys,
		dir:      dir,
		fallback: fallback,
		reload:   reload,
		cache:    map[string]*Site{},
	}
}

// Site returns the copy for lang, falling back to the default language.
func (s *Store) Site(lang string) (*Site, error) {
	if !s.reload {
		s.mu.RLock()
		site, ok := s.cache[lang]
		s.mu.RUnlock()
		if ok {
			return site, nil
		}
	}

	site, err := s.parse(lang)
	if errors.Is(err, ErrNotFound) && lang != s.fallback {
		site, err = s.parse(s.fallback)
	}
	if err != nil {
		return nil, err
	}

	if !s.reload {
		s.mu.Lock()
		s.cache[lang] = site
		s.mu.Unlock()
	}
	return site, nil
}

// Preload parses every language up front so broken copy fails at startup.
func (s *Store) Preload(langs ...string) error {
	for _, l := range langs {
		if _, err := s.Site(l); err != nil {
			return fmt.Errorf("content: preload %s: %w", l, err)
		}
	}
	return nil
}

func (s *Store) parse(lang string) (*Site, error) {
	name := path.Join(s.dir, "site."+lang+".yaml")
	raw, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", name, err)
	}

	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", name, err)
	}
	site.Lang = lang

	if site.Hero.BodyHTML, err = RenderMarkdown(site.Hero.Body); err != nil {
		return nil, fmt.Errorf("content: render hero: %w", err)
	}
	for i := range site.Manufacturers {
		m := &site.Manufacturers[i]
		if m.DescriptionHTML, err = RenderMarkdown(m.Description); err != nil {
			return nil, fmt.Errorf("content: render manufacturer %s: %w", m.ID, err)
		}
	}
	return &site, nil
}
