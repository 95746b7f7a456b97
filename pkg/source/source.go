// Package source loads technology sheets into tables.
//
// A [Source] is a local CSV file ([File]), a CSV document over HTTP such as
// a Google Sheets export ([Remote]), or a MongoDB collection ([Mongo]).
// [Open] picks one from [Options].
package source

import (
	"context"
	"strings"

	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/httputil"
	"github.com/matzehuels/techflow/pkg/table"
)

// Source kinds accepted by [Open].
const (
	KindFile   = "file"
	KindRemote = "remote"
	KindMongo  = "mongo"
)

// Source loads a technology sheet.
type Source interface {
	Load(ctx context.Context) (*table.Table, error)
	// String names the source in logs, e.g. the file path or URL.
	String() string
}

// Options describes where the sheet lives.
type Options struct {
	Kind       string // "file", "remote" or "mongo"; empty infers from the other fields
	Path       string // CSV file path
	URL        string // CSV URL
	SheetID    string // Google Sheets document ID, used when URL is empty
	GID        string // Google Sheets tab ID
	MongoURI   string
	Database   string
	Collection string
	Refresh    bool // bypass the download cache
}

// Open returns the source described by opts. The client is used by remote
// sources and may be nil for the others.
func Open(opts Options, client *httputil.Client) (Source, error) {
	kind := strings.ToLower(opts.Kind)
	if kind == "" {
		kind = inferKind(opts)
	}

	switch kind {
	case KindFile:
		if opts.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidSource, "file source needs a path")
		}
		return &File{Path: opts.Path}, nil
	case KindRemote:
		u := opts.URL
		if u == "" && opts.SheetID != "" {
			u = SheetURL(opts.SheetID, opts.GID)
		}
		if err := errors.ValidateURL(u); err != nil {
			return nil, err
		}
		if client == nil {
			client = httputil.NewClient(httputil.Options{})
		}
		return &Remote{URL: u, Client: client, Refresh: opts.Refresh}, nil
	case KindMongo:
		if opts.MongoURI == "" || opts.Collection == "" {
			return nil, errors.New(errors.ErrCodeInvalidSource, "mongo source needs a URI and a collection")
		}
		return &Mongo{URI: opts.MongoURI, Database: opts.Database, Collection: opts.Collection}, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidSource, "no source configured (set a path, URL, sheet ID or mongo URI)")
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "unknown source kind %q", opts.Kind)
}

func inferKind(opts Options) string {
	switch {
	case opts.Path != "":
		return KindFile
	case opts.URL != "" || opts.SheetID != "":
		return KindRemote
	case opts.MongoURI != "":
		return KindMongo
	}
	return ""
}

// Detect parses a --source argument: an http(s) URL is remote, a
// mongodb:// URI is mongo, anything else is a file path.
func Detect(arg string) Options {
	lower := strings.ToLower(arg)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return Options{Kind: KindRemote, URL: arg}
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return Options{Kind: KindMongo, MongoURI: arg}
	}
	return Options{Kind: KindFile, Path: arg}
}
