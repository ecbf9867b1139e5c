// Package dataset reads the line-oriented inputs of a classification run.
//
// # Formats
//
// Parsers form a closed set selected once from configuration with
// [ParseFormat]:
//
//   - training:  key,user,lat,lon,tag tag ...
//   - test:      same shape, lat/lon may be empty
//   - test-home: test line followed by ,x,homeLat,homeLon
//   - medoid:    key,lat,lon
//
// Tags are case-folded and mapped through a [vocab.Vocabulary]; unknown tags
// are dropped. A training line without retained features is filtered. Lines
// that fail to parse are counted in [Stats] and skipped.
//
// Item ids are 1-based data-line ordinals. A first line holding a bare
// integer is a record-count header and is not a data line.
//
// # Compression
//
// Inputs ending in .gz, .zst, .lz4 or .bz2 are decompressed transparently.
//
// # Streaming
//
// The training corpus is re-read once per batch. [Scan] shares one sequential
// [Stream] between the pool's workers: each worker claims a chunk of lines
// under the stream lock, then parses and consumes them on its own.
//
//	stats, err := dataset.Scan(ctx, p, src, func(w int) dataset.Sink {
//	    acc := accs[w]
//	    return acc.Add
//	})
package dataset
