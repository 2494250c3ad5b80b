package entity

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Artifact struct {
	Path     string
	Title    string
	ID       string
	ModTime  time.Time
	Reported bool // path announced by the dependency rather than found by scanning
}

// Report is the object the dependency prints once the artifact
// reached its final location.
type Report struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Ext      string `json:"ext"`
	Filepath string `json:"filepath"`
}

func ParseReport(line []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(line, &report); err != nil {
		return nil, err
	}
	if len(report.Filepath) == 0 {
		return nil, fmt.Errorf("report carries no filepath")
	}
	return &report, nil
}

// Locate resolves the artifact produced in dir: the latest report pointing to an
// existing file of the given format wins, the directory scan is the fallback.
// The returned count is the number of candidates the scan had to choose from.
func Locate(dir string, format Format, reports []Report) (*Artifact, int, error) {
	for i := len(reports) - 1; i >= 0; i-- {
		path := reports[i].Filepath
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if !format.Matches(filepath.Base(path)) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return &Artifact{
			Path:     path,
			Title:    reports[i].Title,
			ID:       reports[i].ID,
			ModTime:  info.ModTime(),
			Reported: true,
		}, 1, nil
	}
	return Scan(dir, format)
}

// Scan picks the most recently modified regular file in dir carrying the format
// extension. Equal modification times are broken by name, greatest wins.
func Scan(dir string, format Format) (*Artifact, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read directory: %w", err)
	}

	var (
		artifact   *Artifact
		candidates int
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !format.Matches(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed in between listing and stat
			continue
		}
		candidates++
		if artifact == nil ||
			info.ModTime().After(artifact.ModTime) ||
			(info.ModTime().Equal(artifact.ModTime) && entry.Name() > filepath.Base(artifact.Path)) {
			artifact = &Artifact{Path: filepath.Join(dir, entry.Name()), ModTime: info.ModTime()}
		}
	}

	if artifact == nil {
		return nil, 0, fmt.Errorf("%w: no .%s file in %s", ErrArtifactNotFound, format.Extension, dir)
	}
	return artifact, candidates, nil
}
