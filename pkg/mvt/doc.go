// Package mvt decodes binary vector tiles into layers, features, and
// property values.
//
// # Overview
//
// A vector tile is a protobuf-encoded payload containing a sequence of named
// layers. Each layer carries a string table ("keys"), a typed value table
// ("values"), and a sequence of features whose integer tag list references
// those tables in alternating (keyIndex, valueIndex) pairs. This package
// implements the wire format directly - variable-length integers,
// length-delimited messages, packed repeated fields, and unknown-field
// skipping - without generated protobuf code.
//
// # Usage
//
//	tile, err := mvt.Decode(data)
//	if err != nil {
//	    var fe *mvt.FormatError
//	    if errors.As(err, &fe) {
//	        log.Fatalf("bad tile at byte %d: %s", fe.Offset, fe.Reason)
//	    }
//	    log.Fatal(err)
//	}
//	for _, layer := range tile.Layers {
//	    fmt.Println(layer.Name, len(layer.Features))
//	}
//
// # Guarantees
//
// Decoding is all-or-nothing: a malformed payload yields a [FormatError]
// carrying the reason and the absolute byte offset of the fault, never a
// partial tile. Layer order and feature order always match wire order.
// Geometry is skipped, not interpreted.
package mvt
