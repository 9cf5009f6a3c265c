// Package worldmatch embeds the people directory in a Go program: load the
// record store, filter it, place matches on a map and append new people.
//
//	wm, err := worldmatch.Open(ctx,
//	    worldmatch.WithRecordsFile("data/people.csv"),
//	    worldmatch.WithCoordinatesFile("data/countries.csv"),
//	)
//	if err != nil { ... }
//	defer wm.Close()
//
//	people, _ := wm.Find().
//	    Language("English").
//	    Ages(20, 29).
//	    Do(ctx)
//
// The same data can live in Valkey or Redis under a single key:
//
//	wm, _ := worldmatch.Open(ctx,
//	    worldmatch.WithValkey("localhost:6379", ""),
//	    worldmatch.WithRecordsKey("worldmatch:people"),
//	    worldmatch.WithCoordinates(map[string]worldmatch.Point{"Kenya": {Lat: -0.02, Lon: 37.9}}),
//	)
package worldmatch
