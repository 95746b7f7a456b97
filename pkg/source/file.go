package source

import (
	"context"

	"github.com/matzehuels/techflow/pkg/table"
)

// File reads a CSV file with a header row.
type File struct {
	Path string
}

// Load reads the file.
func (f *File) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return table.ReadCSVFile(f.Path)
}

func (f *File) String() string { return f.Path }
