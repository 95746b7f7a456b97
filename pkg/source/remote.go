package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/matzehuels/techflow/pkg/httputil"
	"github.com/matzehuels/techflow/pkg/table"
)

// Remote downloads a CSV document over HTTP.
type Remote struct {
	URL     string
	Client  *httputil.Client
	Refresh bool

	cacheHit bool
}

// SheetURL returns the CSV export URL of a Google Sheets tab.
// An empty gid selects the first tab.
func SheetURL(sheetID, gid string) string {
	u := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", url.PathEscape(sheetID))
	if gid != "" {
		u += "&gid=" + url.QueryEscape(gid)
	}
	return u
}

// Load fetches and parses the document.
func (r *Remote) Load(ctx context.Context) (*table.Table, error) {
	body, hit, err := r.Client.Fetch(ctx, r.URL, r.Refresh)
	if err != nil {
		return nil, err
	}
	r.cacheHit = hit
	return table.ReadCSV(bytes.NewReader(body))
}

// CacheHit reports whether the last Load was served from the cache.
func (r *Remote) CacheHit() bool { return r.cacheHit }

func (r *Remote) String() string { return r.URL }
