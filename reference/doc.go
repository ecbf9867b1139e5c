// Package reference turns a merged classification into coordinates.
//
// The medoid referencer places every test item on the medoid of its
// predicted class and writes one "id lat lon" line per item, sorted by id.
package reference
