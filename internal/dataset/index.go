// Package dataset indexes character sample images on disk and caches
// their decoded pixels.
//
// The on-disk layouts supported are "directory per label" (recursive
// mode: assets/dataset/A/*.png holds samples for label "A") and flat
// (the file stem is the label). All scan results are sorted by path so
// that random sample selection is reproducible across platforms and
// runs; directory read order is not otherwise deterministic.
package dataset

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AssetExtensions is the fixed extension set accepted for texture and
// background directories.
var AssetExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// CharacterImage is one dataset sample for a character label. The
// decoded pixel buffer lives in the shared ImageCache and is loaded
// lazily; CharacterImage itself is never mutated.
type CharacterImage struct {
	Path  string
	Label string
}

// Load decodes the sample through the cache.
func (ci *CharacterImage) Load(cache *ImageCache) (image.Image, error) {
	return cache.Load(ci.Path)
}

// Index maps character labels to their sample images.
type Index struct {
	samples map[string][]CharacterImage
	labels  []string // sorted
}

// Scan builds an index from root. In recursive mode each immediate
// subdirectory names a label and is walked fully; in flat mode each
// image file's stem is its label. Files whose extension (lowercased)
// is not in extensions are skipped.
//
// A missing or unreadable root is not an error: the caller gets an
// empty index and decides how to report it.
func Scan(root string, recursive bool, extensions []string) (*Index, error) {
	idx := &Index{samples: make(map[string][]CharacterImage)}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}

	accept := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		accept[strings.ToLower(ext)] = true
	}

	if recursive {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			label := entry.Name()
			labelDir := filepath.Join(root, label)
			err := filepath.WalkDir(labelDir, func(path string, d os.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				if accept[strings.ToLower(filepath.Ext(path))] {
					idx.samples[label] = append(idx.samples[label],
						CharacterImage{Path: path, Label: label})
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	} else {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !accept[strings.ToLower(filepath.Ext(name))] {
				continue
			}
			label := strings.TrimSuffix(name, filepath.Ext(name))
			idx.samples[label] = append(idx.samples[label],
				CharacterImage{Path: filepath.Join(root, name), Label: label})
		}
	}

	for label, imgs := range idx.samples {
		sort.Slice(imgs, func(i, j int) bool { return imgs[i].Path < imgs[j].Path })
		idx.samples[label] = imgs
		idx.labels = append(idx.labels, label)
	}
	sort.Strings(idx.labels)

	return idx, nil
}

// Labels returns all labels in sorted order.
func (idx *Index) Labels() []string {
	return idx.labels
}

// Samples returns the sample list for a label, sorted by path, or nil
// if the label is absent.
func (idx *Index) Samples(label string) []CharacterImage {
	return idx.samples[label]
}

// Has reports whether the label has at least one sample.
func (idx *Index) Has(label string) bool {
	return len(idx.samples[label]) > 0
}

// Len returns the number of labels.
func (idx *Index) Len() int {
	return len(idx.labels)
}

// ListAssets returns the sorted image files directly inside dir, using
// the fixed AssetExtensions set. A missing directory yields an empty
// list, not an error; the texture and background features degrade to
// no-ops when their directories are absent.
func ListAssets(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	accept := make(map[string]bool, len(AssetExtensions))
	for _, ext := range AssetExtensions {
		accept[ext] = true
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if accept[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}
