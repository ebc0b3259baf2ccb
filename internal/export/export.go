package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"accordion-cli/internal/store"
)

// AssetError describes one image that could not be embedded. It is recovered
// per node: the export carries on and the document shows a placeholder.
type AssetError struct {
	NodeID string
	Path   string
	Err    error
}

func (e AssetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asset for %s unreadable: %s: %v", e.NodeID, e.Path, e.Err)
	}
	return fmt.Sprintf("asset for %s missing: %s", e.NodeID, e.Path)
}

type WriteResult struct {
	Path     string   `json:"path"`
	Assets   []string `json:"assets"`
	Warnings []string `json:"warnings,omitempty"`
}

// Write renders the document to outPath and copies referenced images into a
// sibling assets directory, named by node id to avoid collisions. A missing
// or unreadable asset is downgraded to a warning; it never aborts the export.
func Write(db *store.DB, outPath string) (WriteResult, error) {
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		return WriteResult{}, errors.New("missing output path")
	}
	outPath = filepath.Clean(outPath)

	doc, err := Render(db)
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Dir(outPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := os.WriteFile(outPath, []byte(doc.HTML), 0o644); err != nil {
		return WriteResult{}, err
	}

	res := WriteResult{Path: outPath, Assets: []string{}, Warnings: doc.Warnings}
	if len(doc.Assets) > 0 {
		assetsDir := filepath.Join(outDir, assetsDirName)
		if err := os.MkdirAll(assetsDir, 0o755); err != nil {
			return WriteResult{}, err
		}
		for _, a := range doc.Assets {
			dest := filepath.Join(assetsDir, a.Name)
			if err := copyFile(a.SourcePath, dest); err != nil {
				res.Warnings = append(res.Warnings, AssetError{NodeID: a.NodeID, Path: a.SourcePath, Err: err}.Error())
				continue
			}
			res.Assets = append(res.Assets, dest)
		}
	}
	return res, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
