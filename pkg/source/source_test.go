package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/techflow/pkg/cache"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/httputil"
)

const sheet = "ehubX Tech ID,Input Carriers\nboiler,Gas\nheat_pump,\"Electricity, Ambient heat\"\n"

func TestSheetURL(t *testing.T) {
	tests := []struct {
		id, gid, want string
	}{
		{"abc123", "", "https://docs.google.com/spreadsheets/d/abc123/export?format=csv"},
		{"abc123", "42", "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42"},
	}
	for _, tt := range tests {
		if got := SheetURL(tt.id, tt.gid); got != tt.want {
			t.Errorf("SheetURL(%q, %q) = %q, want %q", tt.id, tt.gid, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"examples/tech_conv.csv", KindFile},
		{"https://example.com/sheet.csv", KindRemote},
		{"HTTP://example.com/sheet.csv", KindRemote},
		{"mongodb://localhost:27017", KindMongo},
		{"mongodb+srv://cluster.example.net", KindMongo},
	}
	for _, tt := range tests {
		if got := Detect(tt.arg).Kind; got != tt.want {
			t.Errorf("Detect(%q).Kind = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantType string
		wantErr  errors.Code
	}{
		{"file", Options{Path: "a.csv"}, "*source.File", ""},
		{"remote url", Options{URL: "https://example.com/a.csv"}, "*source.Remote", ""},
		{"sheet id", Options{SheetID: "abc"}, "*source.Remote", ""},
		{"mongo", Options{MongoURI: "mongodb://localhost", Collection: "tech"}, "*source.Mongo", ""},
		{"nothing", Options{}, "", errors.ErrCodeInvalidSource},
		{"unknown kind", Options{Kind: "ftp"}, "", errors.ErrCodeInvalidSource},
		{"file without path", Options{Kind: KindFile}, "", errors.ErrCodeInvalidSource},
		{"bad scheme", Options{Kind: KindRemote, URL: "ftp://x"}, "", errors.ErrCodeInvalidInput},
		{"mongo without collection", Options{MongoURI: "mongodb://localhost"}, "", errors.ErrCodeInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(tt.opts, nil)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Open() error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			if got := typeName(src); got != tt.wantType {
				t.Errorf("Open() = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func typeName(s Source) string {
	switch s.(type) {
	case *File:
		return "*source.File"
	case *Remote:
		return "*source.Remote"
	case *Mongo:
		return "*source.Mongo"
	}
	return "unknown"
}

func TestFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tech.csv")
	if err := os.WriteFile(path, []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := (&File{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Row(1).Value("Input Carriers"); got != "Electricity, Ambient heat" {
		t.Errorf("quoted cell = %q", got)
	}

	_, err = (&File{Path: filepath.Join(t.TempDir(), "missing.csv")}).Load(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestRemoteLoad(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sheet))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := httputil.NewClient(httputil.Options{Cache: fc, TTL: time.Hour})

	src, err := Open(Options{URL: srv.URL}, client)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	remote := src.(*Remote)

	tbl, err := remote.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tbl.Len() != 2 || remote.CacheHit() {
		t.Errorf("first Load() = %d rows, hit %v", tbl.Len(), remote.CacheHit())
	}

	if _, err := remote.Load(context.Background()); err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	if !remote.CacheHit() || calls.Load() != 1 {
		t.Errorf("second Load() hit %v after %d calls, want cached", remote.CacheHit(), calls.Load())
	}
}

func TestDocumentsToTable(t *testing.T) {
	docs := []bson.D{
		{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "ehubX Tech ID", Value: "boiler"},
			{Key: "Input Carriers", Value: bson.A{"Gas"}},
			{Key: "Input Shares", Value: 1.1},
		},
		{
			{Key: "ehubX Tech ID", Value: "heat_pump"},
			{Key: "Input Carriers", Value: bson.A{"Electricity", "Ambient heat"}},
			{Key: "Input Shares", Value: bson.A{0.3, 0.7}},
			{Key: "Lifetime", Value: int32(20)},
		},
	}

	tbl := documentsToTable(docs)

	wantHeader := []string{"ehubX Tech ID", "Input Carriers", "Input Shares", "Lifetime"}
	header := tbl.Header()
	if len(header) != len(wantHeader) {
		t.Fatalf("Header() = %v, want %v", header, wantHeader)
	}
	for i := range wantHeader {
		if header[i] != wantHeader[i] {
			t.Errorf("Header()[%d] = %q, want %q", i, header[i], wantHeader[i])
		}
	}

	tests := []struct {
		row  int
		col  string
		want string
	}{
		{0, "Input Carriers", "Gas"},
		{0, "Input Shares", "1.1"},
		{0, "Lifetime", ""},
		{1, "Input Carriers", "Electricity, Ambient heat"},
		{1, "Input Shares", "0.3, 0.7"},
		{1, "Lifetime", "20"},
	}
	for _, tt := range tests {
		if got := tbl.Row(tt.row).Value(tt.col); got != tt.want {
			t.Errorf("row %d %q = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestStringify(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"kWh", "kWh"},
		{1.0, "1"},
		{0.25, "0.25"},
		{int64(7), "7"},
		{true, "true"},
		{primitive.NewDateTimeFromTime(ts), "2024-05-01T12:00:00Z"},
		{bson.A{"a", 1.5}, "a, 1.5"},
	}
	for _, tt := range tests {
		if got := stringify(tt.in); got != tt.want {
			t.Errorf("stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMongoLoad(t *testing.T) {
	uri := os.Getenv("TECHFLOW_MONGO_URI")
	if uri == "" {
		t.Skip("TECHFLOW_MONGO_URI not set")
	}
	m := &Mongo{URI: uri, Database: "techflow_test", Collection: "technologies", Timeout: 10 * time.Second}
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
}
