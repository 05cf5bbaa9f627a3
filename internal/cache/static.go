package cache

import (
	"io/fs"

	"github.com/debemdeboas/scribe/internal/util"
)

var staticCache = NewCache[string, string]()

func GetStaticHash(path string) (string, bool) {
	return staticCache.Get(path)
}

func SetStaticHash(path, hash string) {
	staticCache.Set(path, hash)
}

// HashStatic records the content hash of every file in fsys, keyed by
// prefix joined with the file's path. It returns the number of files hashed.
func HashStatic(fsys fs.FS, prefix string) (int, error) {
	n := 0
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		SetStaticHash(prefix+path, util.ContentHash(data))
		n++
		return nil
	})
	return n, err
}
