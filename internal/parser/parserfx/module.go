package parserfx

import (
	"github.com/0x5457/signclip/internal/parser"
	"github.com/0x5457/signclip/internal/parser/poseparser"
	"go.uber.org/fx"
)

// NewParser creates a new pose file parser instance
func NewParser() parser.Parser {
	return poseparser.New()
}

// Module provides parser components
var Module = fx.Module("parser",
	fx.Provide(NewParser),
)
