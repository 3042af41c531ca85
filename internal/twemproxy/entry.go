package twemproxy

import (
	"fmt"
	"strings"
)

// ServerEntry is one backend line of a twemproxy pool, in the
// "host:port:weight[ name]" shape. Weight is opaque text and passes through
// reconciliation untouched; the name segment is optional and only rendered
// when it was present in the source.
type ServerEntry struct {
	Host   string
	Port   string
	Weight string
	Name   string

	hasName bool
}

// ParseServerEntry decodes a pool server line. The address part must carry
// exactly host, port and weight; everything after the first space is the
// name, kept verbatim.
func ParseServerEntry(s string) (ServerEntry, error) {
	addr := s
	var name string
	var hasName bool
	if i := strings.IndexByte(s, ' '); i >= 0 {
		addr, name = s[:i], s[i+1:]
		hasName = true
	}
	parts := strings.Split(addr, ":")
	if len(parts) != 3 {
		return ServerEntry{}, fmt.Errorf("malformed server entry %q", s)
	}
	return ServerEntry{
		Host:    parts[0],
		Port:    parts[1],
		Weight:  parts[2],
		Name:    name,
		hasName: hasName,
	}, nil
}

// String re-encodes the entry. Decoding followed by encoding reproduces the
// input byte for byte.
func (e ServerEntry) String() string {
	s := e.Host + ":" + e.Port + ":" + e.Weight
	if e.hasName {
		s += " " + e.Name
	}
	return s
}
