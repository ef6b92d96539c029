package poseparser

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/util"
)

const Ext = ".pose"

type PoseParser struct{}

func New() *PoseParser { return &PoseParser{} }

// ListFiles walks root and returns every .pose file, skipping hidden
// directories.
func (p *PoseParser) ListFiles(root string) ([]string, error) {
	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), Ext) {
			files = append(files, path)
		}
		return nil
	})
	return files, walkErr
}

func (p *PoseParser) ParseFile(path string) (models.PoseEntry, *pose.Pose, error) {
	ps, err := pose.ReadFile(path)
	if err != nil {
		return models.PoseEntry{}, nil, err
	}
	names := make([]string, len(ps.Header.Components))
	for i, c := range ps.Header.Components {
		names[i] = c.Name
	}
	entry := models.PoseEntry{
		ID:         util.GenerateID(path),
		File:       path,
		Version:    ps.Header.Version,
		FPS:        ps.Body.FPS,
		Frames:     ps.Body.Frames,
		People:     ps.Body.People,
		Points:     ps.Body.Points,
		Dims:       ps.Body.Dims,
		Components: names,
	}
	return entry, ps, nil
}
