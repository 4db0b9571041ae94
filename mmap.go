package fst

import (
	"os"

	"github.com/blevesearch/mmap-go"
)

// MappedFST is an FST loaded by LoadMmap, together with the read-only
// mapping of the file it was loaded from. Load copies the arc bytes into
// the FST's own heap-allocated ByteStore, so lookups do not read from the
// mapping. The mapping and the file stay open until Close is called, or
// until process exit if it never is.
type MappedFST struct {
	*FST
	mapping mmap.MMap
	file    *os.File
}

// Close unmaps the backing file and closes its descriptor.
func (m *MappedFST) Close() error {
	if err := m.mapping.Unmap(); err != nil {
		return errIO(err, "unmapping fst file")
	}
	return m.file.Close()
}

// LoadMmap opens path, maps it read-only, and passes the mapped bytes to
// Load. Load copies the arc bytes into the heap as it does for any other
// buffer; the mapping does not avoid that copy.
func LoadMmap(path string, outputs Outputs) (*MappedFST, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errIO(err, "opening fst file %q", path)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errIO(err, "mapping fst file %q", path)
	}
	fst, err := Load(m, outputs)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}
	return &MappedFST{FST: fst, mapping: m, file: f}, nil
}
