package energyparsers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Parser reads one month's column from a usage sheet.
type Parser interface {
	Parse(data []byte, period energydomain.Period) (*energydomain.Sheet, error)
}

// ParserFactory defines the interface for creating parsers
type ParserFactory interface {
	GetParser(filename string) (Parser, error)
}

// Factory picks a parser by file extension.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the parser for filename's extension.
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx", ".xlsm":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}
