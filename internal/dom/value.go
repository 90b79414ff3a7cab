package dom

// Value is an optional string read from the tree.
type Value struct {
	s  string
	ok bool
}

// Some returns a present value.
func Some(s string) Value { return Value{s: s, ok: true} }

// None is the absent value.
var None = Value{}

// Get returns the string and whether it is present.
func (v Value) Get() (string, bool) { return v.s, v.ok }

// Present reports whether the value was supplied.
func (v Value) Present() bool { return v.ok }

// Or returns the value, or def when absent.
func (v Value) Or(def string) string {
	if v.ok {
		return v.s
	}
	return def
}

// String returns the value, or "" when absent.
func (v Value) String() string { return v.s }

// NonEmpty treats an empty string as absent.
func (v Value) NonEmpty() Value {
	if v.s == "" {
		return None
	}
	return v
}
