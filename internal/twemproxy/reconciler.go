// Package twemproxy rewrites the backend server lists of a twemproxy pool
// configuration after a sentinel failover and triggers the proxy reload.
package twemproxy

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"beholder/internal/shared/logger"
)

var (
	// ErrLoadConfig marks an unreadable or undecodable proxy configuration;
	// nothing is written in that case.
	ErrLoadConfig = errors.New("load proxy config")
	// ErrWriteConfig marks a failed write-back; a failed write is never
	// reported as a successful update.
	ErrWriteConfig = errors.New("write proxy config")
)

// Update records one rewritten pool entry, for logging only.
type Update struct {
	Pool    string
	Index   int
	OldHost string
	OldPort string
	NewHost string
	NewPort string
}

// Result reports whether a reconciliation pass changed anything.
type Result struct {
	Changed bool
	Updated []Update
}

// Reconciler performs a single read-rewrite-write pass over the proxy
// configuration. The on-disk file is the sole source of truth; no state
// survives between Apply calls.
type Reconciler struct {
	path string
	log  zerolog.Logger
}

func NewReconciler(path string) *Reconciler {
	return &Reconciler{
		path: path,
		log:  logger.WithComponent("twemproxy"),
	}
}

// Apply rewrites every pool entry whose host:port equals oldHost:oldPort to
// newHost:newPort. Matching is exact string equality. Pool order, entry
// order, weights, names and unrelated fields survive the pass unchanged.
//
// The document is re-encoded and written back even when nothing matched,
// matching the behavior the rest of the tooling has always seen. Writing
// only on change would be the tidier contract, but it would also silently
// alter the file's mtime semantics for operators, so the rewrite stays
// unconditional.
func (r *Reconciler) Apply(oldHost, oldPort, newHost, newPort string) (Result, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	var res Result
	if len(doc.Content) > 0 {
		r.rewritePools(doc.Content[0], oldHost, oldPort, newHost, newPort, &res)
	}

	out, err := encodeDocument(&doc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrWriteConfig, err)
	}
	if err := os.WriteFile(r.path, out, 0644); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrWriteConfig, err)
	}
	return res, nil
}

// rewritePools walks pool name -> pool mapping -> servers sequence, editing
// matching scalar entries in place so node order is preserved by
// construction.
func (r *Reconciler) rewritePools(root *yaml.Node, oldHost, oldPort, newHost, newPort string, res *Result) {
	if root.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		poolName := root.Content[i].Value
		servers := mappingValue(root.Content[i+1], "servers")
		if servers == nil || servers.Kind != yaml.SequenceNode {
			continue
		}
		for idx, node := range servers.Content {
			if node.Kind != yaml.ScalarNode {
				continue
			}
			entry, err := ParseServerEntry(node.Value)
			if err != nil {
				r.log.Warn().
					Str("pool", poolName).
					Int("index", idx).
					Err(err).
					Msg("skipping unparsable server entry")
				continue
			}
			if entry.Host != oldHost || entry.Port != oldPort {
				continue
			}
			entry.Host = newHost
			entry.Port = newPort
			node.Value = entry.String()
			res.Changed = true
			res.Updated = append(res.Updated, Update{
				Pool:    poolName,
				Index:   idx,
				OldHost: oldHost,
				OldPort: oldPort,
				NewHost: newHost,
				NewPort: newPort,
			})
			r.log.Info().
				Str("pool", poolName).
				Str("name", entry.Name).
				Msgf("%s:%s changed to %s:%s", oldHost, oldPort, newHost, newPort)
		}
	}
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func encodeDocument(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
