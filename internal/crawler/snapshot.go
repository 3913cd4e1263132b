package crawler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"inceptiv/crenewsworker/helpers"
	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/logger"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// IndexFileName is the snapshot index mapping file names to source URLs.
const IndexFileName = "index.json"

// SnapshotWriter saves fetched pages to a directory so they can be
// re-parsed later without the network.
type SnapshotWriter struct {
	mu    sync.Mutex
	dir   string
	index map[string]string
	next  int
}

// NewSnapshotWriter creates dir if needed and continues numbering after
// any snapshots already indexed there.
func NewSnapshotWriter(dir string) (*SnapshotWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	index, err := LoadSnapshotIndex(dir)
	if err != nil {
		return nil, err
	}
	return &SnapshotWriter{
		dir:   dir,
		index: index,
		next:  len(index) + 1,
	}, nil
}

// Dir returns the snapshot directory.
func (w *SnapshotWriter) Dir() string {
	return w.dir
}

// Save writes body as <slug>_<n>.html and records it in the index.
func (w *SnapshotWriter) Save(pageURL string, body []byte) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name := helpers.SnapshotFileName(pageURL, w.next)
	if err := os.WriteFile(filepath.Join(w.dir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	w.next++
	w.index[name] = pageURL

	data, err := json.MarshalIndent(w.index, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, IndexFileName), data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot index: %w", err)
	}
	return name, nil
}

// LoadSnapshotIndex reads the index of dir. A missing index is empty.
func LoadSnapshotIndex(dir string) (map[string]string, error) {
	index := make(map[string]string)
	data, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if os.IsNotExist(err) {
		return index, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot index: %w", err)
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decode snapshot index: %w", err)
	}
	return index, nil
}

// ParseDirectory extracts records from every .html file in dir, in file
// name order, with the site's selectors. Article-mode sites give one record
// per file; listing-mode sites give one per card. The record URL comes from
// the snapshot index, or is the file path when the file is not indexed.
func ParseDirectory(dir string, site SiteConfig, h extract.Heuristics) ([]extract.ArticleRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewParsing(site.ID, "read snapshot dir "+dir, err)
	}
	index, err := LoadSnapshotIndex(dir)
	if err != nil {
		return nil, apperrors.NewParsing(site.ID, "load snapshot index", err)
	}

	log := logger.ForSite(site.ID)
	var records []extract.ArticleRecord

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".html") {
			continue
		}

		path := filepath.Join(dir, name)
		body, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable snapshot")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unparsable snapshot")
			continue
		}

		source, ok := index[name]
		if !ok {
			source = path
		}

		if site.Mode == ModeListing {
			for _, teaser := range ParseListing(doc, source, site.Listing) {
				records = append(records, extract.AssembleTeaser(teaser, h))
			}
			continue
		}
		records = append(records, extract.Assemble(doc, source, site.Selectors, h))
	}

	log.Info().Int("records", len(records)).Str("dir", dir).Msg("Snapshot directory parsed")
	return records, nil
}
