package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/techflow/pkg/cache"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/io"
	"github.com/matzehuels/techflow/pkg/observability"
	"github.com/matzehuels/techflow/pkg/render"
	"github.com/matzehuels/techflow/pkg/render/dot"
)

// RenderWithCacheInfo renders g in every requested format. Artifacts are
// cached under the graph's content hash, so an unchanged technology is
// rendered once. Returns the artifacts, the graph hash and whether all
// artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *flow.Graph, opts Options) (map[render.Format][]byte, string, bool, error) {
	formats := opts.formats()
	names := formatNames(formats)

	hash, err := GraphHash(g)
	if err != nil {
		return nil, "", false, fmt.Errorf("hash graph: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, g.Name(), names)
	start := time.Now()

	artifacts := make(map[render.Format][]byte, len(formats))
	allHit := true
	for _, f := range formats {
		key := r.Keyer.ArtifactKey(hash, artifactKeyOpts(g, f))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[f] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := Render(ctx, g, f)
		if err != nil {
			hooks.OnRenderComplete(ctx, g.Name(), names, time.Since(start), err)
			return nil, "", false, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", f, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	hooks.OnRenderComplete(ctx, g.Name(), names, time.Since(start), nil)
	return artifacts, hash, allHit, nil
}

// Render produces one artifact without caching.
func Render(ctx context.Context, g *flow.Graph, f render.Format) ([]byte, error) {
	if f == render.FormatJSON {
		var buf bytes.Buffer
		if err := io.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return dot.Render(ctx, g, f)
}

func artifactKeyOpts(g *flow.Graph, f render.Format) cache.ArtifactKeyOpts {
	a := g.Attrs()
	return cache.ArtifactKeyOpts{Format: string(f), DPI: a.DPI, Size: a.Size}
}

func formatNames(formats []render.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
