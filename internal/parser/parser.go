package parser

import (
	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/pose"
)

// Parser reads pose files into catalog entries.
type Parser interface {
	ParseFile(path string) (models.PoseEntry, *pose.Pose, error)
	ListFiles(root string) ([]string, error)
}
