package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileDownloader writes downloads into Dir, creating it when needed.
type FileDownloader struct {
	Dir string
}

// DefaultDownloadDir is ~/Downloads when it exists, else the working directory.
func DefaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	return "."
}

// Save writes data to Dir/name.
func (d FileDownloader) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// PathDownloader writes every download to one fixed path, for the CLI's
// -output flag.
type PathDownloader string

func (p PathDownloader) Save(ctx context.Context, _ string, data []byte) (string, error) {
	dir, name := filepath.Split(string(p))
	return FileDownloader{Dir: dir}.Save(ctx, name, data)
}
