package enhance

// protocolMethods enumerates the object-protocol methods recognized by
// the platform and its core interfaces.  An enhancement must never
// intercept these, even when it defines a method of the same name,
// since the runtime and standard library call them implicitly.
// The enumeration is closed and best-effort: a user method that merely
// shares one of these names is also exempt from interception.
var protocolMethods = map[string]struct{}{
	"String":          {},
	"GoString":        {},
	"Format":          {},
	"Error":           {},
	"Unwrap":          {},
	"Is":              {},
	"As":              {},
	"Equal":           {},
	"Hash":            {},
	"MarshalJSON":     {},
	"UnmarshalJSON":   {},
	"MarshalText":     {},
	"UnmarshalText":   {},
	"MarshalBinary":   {},
	"UnmarshalBinary": {},
}

// ProtocolMethod reports whether name designates a platform
// object-protocol method exempt from interception.
func ProtocolMethod(name string) bool {
	_, ok := protocolMethods[name]
	return ok
}
