// Package compression shrinks scraped listing text before it is handed to a model.
//
// The Compressor runs four stages in order:
//
//  1. Clean: whitespace collapse, symbol stripping, punctuation run folding.
//  2. Deduplicator: drops sentences whose character overlap with an earlier
//     sentence exceeds a threshold.
//  3. Ranker: scores sentences with a weighted keyword vocabulary and keeps the
//     top fraction, most important first.
//  4. Truncate: drops whole trailing sentences until the result fits.
//
// Lengths are counted in runes so Japanese listings are measured the same way as
// English ones.
package compression
