// Package addrsearch provides instant typeahead search over a large,
// infrequently-changing address dataset distributed via CDN, with no
// backend query server.
//
// The engine fetches a versioned, compressed snapshot of the dataset
// from one of several remote sources, materializes it into an in-memory
// search index exactly once per version, and answers normalized text
// queries against it. Individual-source outages are survived through an
// ordered fallback chain; concurrent overlapping requests share a single
// fetch/build through single-flight coordination.
//
// # Quick start
//
//	resolver := manifest.NewHTTPResolver("https://cdn.example.com/version-manifest.json")
//	sources := []loader.Source{
//	    loader.NewHTTPSource(nil),
//	    loader.NewObjectSource("backup-cdn", mirrorStore, nil),
//	    loader.NewCacheSource(cacheProvider, ""),
//	    loader.NewCacheScanSource(cacheProvider),
//	}
//	engine, err := addrsearch.New(resolver, sources)
//	if err != nil {
//	    panic(err)
//	}
//
//	results := engine.Query(ctx, "1 main st", 10)
//
// Query never returns an error: any failure along the manifest, fetch,
// decode, or build path degrades to an empty result set and a logged
// error, because a broken search index must never break the page that
// hosts it.
//
// # Versioning
//
// Snapshot versions are immutable and content-addressed. A newer version
// observed in the manifest invalidates the cached index lazily: the next
// call after the manifest TTL expires rebuilds under the same
// single-flight rule. If the current version cannot be built, the engine
// falls back to the manifest's previous version and serves it in a
// degraded state.
package addrsearch
