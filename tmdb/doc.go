// Package tmdb provides a client for the listing, genre and image endpoints of The Movie
// Database v3 API.
//
// # Components
//
//   - Client: authenticated HTTP access to the API and the image CDN
//   - GenreCatalog: id to name lookup, loaded once and replaced as a whole
//   - PageFetcher: fetches and parses listing pages into MovieRecords
//   - ImageFetcher: background backdrop downloads and single-shot poster downloads
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(tmdb.DefaultBaseURL, apiKey, logger,
//		tmdb.WithTimeout(10*time.Second),
//		tmdb.WithLanguage("en-US"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	catalog := tmdb.NewGenreCatalog(client, logger)
//	if err := catalog.Load(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	pages := tmdb.NewPageFetcher(client, catalog)
//	page, err := pages.FetchPage(ctx, tmdb.SearchPath, url.Values{"query": {"alien"}}, 1)
//
// # Error Handling
//
// Every failed fetch returns a *FetchError whose kind is one of ErrNetwork, ErrHTTPStatus
// or ErrParse:
//
//	if errors.Is(err, tmdb.ErrHTTPStatus) {
//		var fe *tmdb.FetchError
//		if errors.As(err, &fe) && fe.IsUnauthorized() {
//			// Handle auth failure
//		}
//	}
package tmdb
