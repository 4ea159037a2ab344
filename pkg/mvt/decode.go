package mvt

import "math"

// Field numbers of the vector-tile schema.
const (
	tileFieldLayer = 3

	layerFieldName    = 1
	layerFieldFeature = 2
	layerFieldKey     = 3
	layerFieldValue   = 4
	layerFieldExtent  = 5
	layerFieldVersion = 15

	featureFieldID       = 1
	featureFieldTags     = 2
	featureFieldType     = 3
	featureFieldGeometry = 4

	valueFieldString = 1
	valueFieldFloat  = 2
	valueFieldDouble = 3
	valueFieldInt    = 4
	valueFieldUint   = 5
	valueFieldSint   = 6
	valueFieldBool   = 7
)

// Decode parses a binary vector-tile payload. The returned tile preserves
// wire order for both layers and features. Decoding never mutates data and
// is all-or-nothing: any structural fault yields a [FormatError].
func Decode(data []byte) (*Tile, error) {
	r := &reader{buf: data}
	tile := &Tile{}

	for !r.done() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		if field == tileFieldLayer && wire == wireBytes {
			msg, at, err := r.bytes()
			if err != nil {
				return nil, err
			}
			layer, err := decodeLayer(&reader{buf: msg, base: at})
			if err != nil {
				return nil, err
			}
			tile.Layers = append(tile.Layers, layer)
			continue
		}
		if err := r.skip(wire); err != nil {
			return nil, err
		}
	}
	return tile, nil
}

// rawFeature defers feature decoding until the layer's keys and values
// tables are complete; the wire format allows tables to follow features.
type rawFeature struct {
	buf  []byte
	base int
}

func decodeLayer(r *reader) (*Layer, error) {
	layer := &Layer{
		Version: DefaultVersion,
		Extent:  DefaultExtent,
	}
	start := r.offset()
	var raw []rawFeature

	for !r.done() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == layerFieldName && wire == wireBytes:
			b, _, err := r.bytes()
			if err != nil {
				return nil, err
			}
			layer.Name = string(b)
		case field == layerFieldFeature && wire == wireBytes:
			b, at, err := r.bytes()
			if err != nil {
				return nil, err
			}
			raw = append(raw, rawFeature{buf: b, base: at})
		case field == layerFieldKey && wire == wireBytes:
			b, _, err := r.bytes()
			if err != nil {
				return nil, err
			}
			layer.Keys = append(layer.Keys, string(b))
		case field == layerFieldValue && wire == wireBytes:
			b, at, err := r.bytes()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(&reader{buf: b, base: at})
			if err != nil {
				return nil, err
			}
			layer.Values = append(layer.Values, v)
		case field == layerFieldExtent && wire == wireVarint:
			v, err := r.varint()
			if err != nil {
				return nil, err
			}
			layer.Extent = uint32(v)
		case field == layerFieldVersion && wire == wireVarint:
			v, err := r.varint()
			if err != nil {
				return nil, err
			}
			layer.Version = uint32(v)
		default:
			if err := r.skip(wire); err != nil {
				return nil, err
			}
		}
	}

	if layer.Name == "" {
		return nil, formatErrf(start, "layer is missing a name")
	}

	layer.Features = make([]*Feature, 0, len(raw))
	for _, rf := range raw {
		f, err := decodeFeature(&reader{buf: rf.buf, base: rf.base}, layer)
		if err != nil {
			return nil, err
		}
		layer.Features = append(layer.Features, f)
	}
	return layer, nil
}

func decodeFeature(r *reader, layer *Layer) (*Feature, error) {
	f := &Feature{}
	start := r.offset()
	var tags []uint64

	for !r.done() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch {
		case field == featureFieldID && wire == wireVarint:
			v, err := r.varint()
			if err != nil {
				return nil, err
			}
			f.ID = v
		case field == featureFieldTags && wire == wireBytes:
			// Packed encoding: a run of varints in one payload.
			b, at, err := r.bytes()
			if err != nil {
				return nil, err
			}
			pr := &reader{buf: b, base: at}
			for !pr.done() {
				v, err := pr.varint()
				if err != nil {
					return nil, err
				}
				tags = append(tags, v)
			}
		case field == featureFieldTags && wire == wireVarint:
			v, err := r.varint()
			if err != nil {
				return nil, err
			}
			tags = append(tags, v)
		case field == featureFieldType && wire == wireVarint:
			v, err := r.varint()
			if err != nil {
				return nil, err
			}
			f.Type = GeomType(v)
		case field == featureFieldGeometry && wire == wireBytes:
			// Geometry is recorded nowhere; skip the payload.
			if _, _, err := r.bytes(); err != nil {
				return nil, err
			}
		default:
			if err := r.skip(wire); err != nil {
				return nil, err
			}
		}
	}

	if len(tags)%2 != 0 {
		return nil, formatErrf(start, "feature has a dangling tag pair")
	}

	f.Properties = make([]Property, 0, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		ki, vi := tags[i], tags[i+1]
		if ki >= uint64(len(layer.Keys)) {
			return nil, formatErrf(start, "key index %d out of range (%d keys)", ki, len(layer.Keys))
		}
		if vi >= uint64(len(layer.Values)) {
			return nil, formatErrf(start, "value index %d out of range (%d values)", vi, len(layer.Values))
		}
		f.Properties = append(f.Properties, Property{
			Key:   layer.Keys[ki],
			Value: layer.Values[vi],
		})
	}
	return f, nil
}

// decodeValue maps one value-table entry onto the canonical variants. A
// message with no fields decodes to Null; a message carrying only
// unrecognized field tags decodes to Unknown.
func decodeValue(r *reader) (Value, error) {
	v := Null()
	for !r.done() {
		field, wire, err := r.tag()
		if err != nil {
			return Value{}, err
		}
		switch {
		case field == valueFieldString && wire == wireBytes:
			b, _, err := r.bytes()
			if err != nil {
				return Value{}, err
			}
			v = String(string(b))
		case field == valueFieldFloat && wire == wireFixed32:
			bits, err := r.fixed32()
			if err != nil {
				return Value{}, err
			}
			v = Number(float64(math.Float32frombits(bits)))
		case field == valueFieldDouble && wire == wireFixed64:
			bits, err := r.fixed64()
			if err != nil {
				return Value{}, err
			}
			v = Number(math.Float64frombits(bits))
		case field == valueFieldInt && wire == wireVarint:
			u, err := r.varint()
			if err != nil {
				return Value{}, err
			}
			v = Number(float64(int64(u)))
		case field == valueFieldUint && wire == wireVarint:
			u, err := r.varint()
			if err != nil {
				return Value{}, err
			}
			v = Number(float64(u))
		case field == valueFieldSint && wire == wireVarint:
			u, err := r.varint()
			if err != nil {
				return Value{}, err
			}
			v = Number(float64(zigzag(u)))
		case field == valueFieldBool && wire == wireVarint:
			u, err := r.varint()
			if err != nil {
				return Value{}, err
			}
			v = Boolean(u != 0)
		default:
			if err := r.skip(wire); err != nil {
				return Value{}, err
			}
			if v.Type == TypeNull {
				v = Unknown()
			}
		}
	}
	return v, nil
}
