package mvt

// Default metadata values used when a layer omits the corresponding field.
const (
	DefaultVersion = 1
	DefaultExtent  = 4096
)

// GeomType is the declared geometry type of a feature. Geometry itself is
// skipped during decoding; the type is recorded as-is.
type GeomType uint32

// Geometry types as encoded on the wire.
const (
	GeomUnknown GeomType = iota
	GeomPoint
	GeomLineString
	GeomPolygon
)

// Property is one (key, value) pair of a feature's property mapping.
type Property struct {
	Key   string
	Value Value
}

// Feature is one record within a layer. Properties preserves the order of
// the feature's encoded tag pairs.
type Feature struct {
	ID         uint64
	Type       GeomType
	Properties []Property
}

// Get returns the value for key and whether the feature carries it.
func (f *Feature) Get(key string) (Value, bool) {
	for _, p := range f.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Layer is a named collection of features sharing an extent and version.
// Keys and Values are the layer's decoded lookup tables; Features appear in
// exact wire order.
type Layer struct {
	Name     string
	Version  uint32
	Extent   uint32
	Keys     []string
	Values   []Value
	Features []*Feature
}

// Tile is one decoded vector tile. Layers appear in wire encounter order.
type Tile struct {
	Layers []*Layer
}

// Layer returns the first layer with the given name, or nil.
func (t *Tile) Layer(name string) *Layer {
	for _, l := range t.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
