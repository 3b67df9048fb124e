package supply

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// kindByExtension maps file extensions to content kinds. Files with other
// extensions are not candidates for verification.
var kindByExtension = map[string]model.ContentKind{
	".js":     model.KindCode,
	".jsx":    model.KindCode,
	".ts":     model.KindCode,
	".tsx":    model.KindCode,
	".mjs":    model.KindCode,
	".cjs":    model.KindCode,
	".go":     model.KindCode,
	".py":     model.KindCode,
	".css":    model.KindStylesheet,
	".scss":   model.KindStylesheet,
	".sass":   model.KindStylesheet,
	".less":   model.KindStylesheet,
	".html":   model.KindMarkup,
	".htm":    model.KindMarkup,
	".vue":    model.KindMarkup,
	".svelte": model.KindMarkup,
}

// KindForPath classifies a path by extension; ok is false for files that
// carry no verifiable content kind.
func KindForPath(path string) (model.ContentKind, bool) {
	kind, ok := kindByExtension[strings.ToLower(filepath.Ext(path))]
	return kind, ok
}

// Supplier collects candidate file contents from a workspace. File text is
// cached by path and modification time, so repeated verifications of an
// unchanged workspace skip re-reads.
type Supplier struct {
	cfg   model.WorkspaceConfig
	cache *gocache.Cache // nil when caching disabled
}

// NewSupplier creates a supplier for the given workspace configuration
func NewSupplier(cfg model.WorkspaceConfig, cacheCfg model.CacheConfig) *Supplier {
	var c *gocache.Cache
	if cacheCfg.Enabled {
		c = gocache.New(cacheCfg.TTL, 2*cacheCfg.TTL)
	}
	return &Supplier{cfg: cfg, cache: c}
}

// Collect walks the workspace root and returns an ordered list of file
// contents, capped at MaxFiles. Walk order is deterministic (lexical, per
// filepath.WalkDir).
func (s *Supplier) Collect() ([]model.FileContent, error) {
	root := s.cfg.Root
	if root == "" {
		root = "."
	}

	var files []model.FileContent
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if s.ignored(d.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if s.cfg.MaxFiles > 0 && len(files) >= s.cfg.MaxFiles {
			return filepath.SkipAll
		}

		fc, ok, err := s.read(path)
		if err != nil || !ok {
			// Unreadable or oversized files are skipped, not fatal.
			return nil
		}
		files = append(files, fc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// CollectPaths reads an explicit list of paths, preserving caller order.
// Paths with unknown extensions are skipped.
func (s *Supplier) CollectPaths(paths []string) ([]model.FileContent, error) {
	var files []model.FileContent
	for _, path := range paths {
		if s.cfg.MaxFiles > 0 && len(files) >= s.cfg.MaxFiles {
			break
		}
		fc, ok, err := s.read(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if ok {
			files = append(files, fc)
		}
	}
	return files, nil
}

// read loads one file, consulting the content cache first
func (s *Supplier) read(path string) (model.FileContent, bool, error) {
	kind, ok := KindForPath(path)
	if !ok {
		return model.FileContent{}, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return model.FileContent{}, false, err
	}
	if s.cfg.MaxFileBytes > 0 && info.Size() > s.cfg.MaxFileBytes {
		return model.FileContent{}, false, nil
	}

	key := cacheKey(path, info.ModTime())
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			return model.FileContent{Path: path, ContentKind: kind, Text: cached.(string)}, true, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.FileContent{}, false, err
	}

	text := string(data)
	if s.cache != nil {
		s.cache.Set(key, text, gocache.DefaultExpiration)
	}

	return model.FileContent{Path: path, ContentKind: kind, Text: text}, true, nil
}

func (s *Supplier) ignored(dir string) bool {
	for _, name := range s.cfg.IgnoreDirs {
		if dir == name {
			return true
		}
	}
	return false
}

func cacheKey(path string, modTime time.Time) string {
	return path + "@" + modTime.UTC().Format(time.RFC3339Nano)
}
