package value

import "fmt"

// yamlValue is the on-disk shape of a Value inside a project description:
//
//	type: bool|int|double|string|tuple|set|map|matrix|table|xml|null
//	value: <native yaml payload for that type>
//
// Matching the typed-key convention used for vle.conf, carried over to
// the YAML project description for consistency.
//
// MarshalYAML writes every tag above; the elements of set, map and matrix
// payloads are themselves written in this typed form. UnmarshalYAML
// accepts every tag except matrix, and reads set and map elements only as
// plain YAML scalars (bool, int, double, string, null); any other element,
// including a typed element written by MarshalYAML, is read as null.
type yamlValue struct {
	Type string      `yaml:"type"`
	Value interface{} `yaml:"value,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindNull:
		return yamlValue{Type: "null"}, nil
	case KindBool:
		return yamlValue{Type: "bool", Value: v.b}, nil
	case KindInt:
		return yamlValue{Type: "int", Value: v.i}, nil
	case KindDouble:
		return yamlValue{Type: "double", Value: v.d}, nil
	case KindString:
		return yamlValue{Type: "string", Value: v.s}, nil
	case KindXML:
		return yamlValue{Type: "xml", Value: v.xml}, nil
	case KindTuple:
		return yamlValue{Type: "tuple", Value: v.tuple}, nil
	case KindSet:
		return yamlValue{Type: "set", Value: v.set}, nil
	case KindMap:
		return yamlValue{Type: "map", Value: v.m}, nil
	case KindTable:
		return yamlValue{Type: "table", Value: v.table}, nil
	case KindMatrix:
		return yamlValue{Type: "matrix", Value: v.matrix}, nil
	default:
		return nil, fmt.Errorf("value: unknown kind %v", v.kind)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw yamlValue
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	switch raw.Type {
	case "", "null":
		*v = Null()
	case "bool":
		b, _ := raw.Value.(bool)
		*v = Bool(b)
	case "int":
		*v = Int(toInt64(raw.Value))
	case "double":
		*v = Double(toFloat64(raw.Value))
	case "string":
		s, _ := raw.Value.(string)
		*v = String(s)
	case "xml":
		s, _ := raw.Value.(string)
		*v = XML(s)
	case "tuple":
		xs, _ := raw.Value.([]interface{})
		ts := make([]float64, len(xs))
		for i, x := range xs {
			ts[i] = toFloat64(x)
		}
		*v = Tuple(ts...)
	case "set":
		xs, _ := raw.Value.([]interface{})
		vs := make([]Value, len(xs))
		for i, x := range xs {
			vs[i] = fromInterface(x)
		}
		*v = Set(vs...)
	case "map":
		xs, _ := raw.Value.(map[string]interface{})
		m := make(map[string]Value, len(xs))
		for k, x := range xs {
			m[k] = fromInterface(x)
		}
		*v = Map(m)
	case "table":
		rows, _ := raw.Value.([]interface{})
		out := make([][]float64, len(rows))
		for i, r := range rows {
			cells, _ := r.([]interface{})
			row := make([]float64, len(cells))
			for j, c := range cells {
				row[j] = toFloat64(c)
			}
			out[i] = row
		}
		*v = Table(out)
	default:
		return fmt.Errorf("value: unknown type tag %q", raw.Type)
	}
	return nil
}

func toFloat64(x interface{}) float64 {
	switch n := x.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toInt64(x interface{}) int64 {
	switch n := x.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func fromInterface(x interface{}) Value {
	switch n := x.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(n)
	case int:
		return Int(int64(n))
	case int64:
		return Int(n)
	case float64:
		return Double(n)
	case string:
		return String(n)
	default:
		return Null()
	}
}
