// Package docstore serves documents straight from a directory. Every call
// rescans the directory and re-reads files — deliberately uncached, so
// content always reflects the filesystem at query time. Do not add a cache:
// stale content after edits would change observable behaviour.
package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// typeNames maps supported extensions to their listing descriptions.
var typeNames = map[string]string{
	".txt":  "Plain Text Document",
	".pdf":  "PDF Document",
	".docx": "Microsoft Word Document",
	".doc":  "Legacy Microsoft Word Document",
	".rtf":  "Rich Text Format Document",
}

type Store struct {
	dir    string
	logger zerolog.Logger
}

func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

var _ ports.DocumentStore = (*Store)(nil)

// scan enumerates supported files, keyed by filename without extension with
// spaces and hyphens mapped to underscores. Sorted for a stable order.
func (s *Store) scan() (keys []string, paths map[string]string, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan documents dir: %w", err)
	}

	paths = make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := typeNames[ext]; !ok {
			continue
		}
		key := docKey(e.Name())
		if _, dup := paths[key]; dup {
			s.logger.Warn().Str("document", key).Msg("duplicate document key, keeping first")
			continue
		}
		keys = append(keys, key)
		paths[key] = filepath.Join(s.dir, e.Name())
	}
	sort.Strings(keys)
	return keys, paths, nil
}

func (s *Store) List(_ context.Context) ([]domain.DocumentInfo, error) {
	keys, paths, err := s.scan()
	if err != nil {
		return nil, err
	}

	infos := make([]domain.DocumentInfo, 0, len(keys))
	for _, key := range keys {
		path := paths[key]
		st, err := os.Stat(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("document", key).Msg("stat failed, skipping")
			continue
		}
		infos = append(infos, domain.DocumentInfo{
			Name:        key,
			DisplayName: domain.DisplayName(key),
			Type:        typeNames[strings.ToLower(filepath.Ext(path))],
			SizeKB:      float64(st.Size()) / 1024,
			ModifiedAt:  st.ModTime().UTC(),
		})
	}
	return infos, nil
}

func (s *Store) Load(_ context.Context, name string) (*domain.Document, error) {
	_, paths, err := s.scan()
	if err != nil {
		return nil, err
	}
	path, ok := paths[name]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return s.load(name, path)
}

// LoadAll reads every listed document. Extraction failures are logged and
// skipped — a single unreadable file never fails the whole set.
func (s *Store) LoadAll(_ context.Context) ([]domain.Document, error) {
	keys, paths, err := s.scan()
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(keys))
	for _, key := range keys {
		doc, err := s.load(key, paths[key])
		if err != nil {
			s.logger.Warn().Err(err).Str("document", key).Msg("extraction failed, skipping")
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *Store) load(name, path string) (*domain.Document, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	text, err := extractText(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	return &domain.Document{
		Name:       name,
		Path:       path,
		RawText:    text,
		ByteSize:   st.Size(),
		ModifiedAt: st.ModTime().UTC(),
	}, nil
}

func docKey(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")
	return strings.ReplaceAll(base, "-", "_")
}
