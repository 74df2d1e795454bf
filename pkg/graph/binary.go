package graph

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"curvenet/pkg/geom"
)

const (
	magicBytes = "CURVEGRF"
	version    = uint32(1)

	maxNodes         = 10_000_000
	maxEdges         = 50_000_000
	maxPointsPerEdge = 1_000_000
)

// ErrBadGraph is returned when asked to serialize an invalid graph.
var ErrBadGraph = errors.New("cannot serialize invalid graph")

// fileHeader is the binary header.
type fileHeader struct {
	Magic    [8]byte
	Version  uint32
	NumNodes uint32
	NumEdges uint32
}

// Write serializes the graph to w in the keyed binary format: header, then
// per node its outgoing edge count, then per edge its destination index,
// length and geometry point list, then a CRC32 trailer. The format
// round-trips adjacency and geometry exactly.
func Write(w io.Writer, g *Graph) error {
	if !g.Valid() {
		return fmt.Errorf("%w: %s", ErrBadGraph, g.Reason())
	}

	cw := &crc32Writer{w: w, hash: crc32.NewIEEE()}

	hdr := fileHeader{
		Version:  version,
		NumNodes: uint32(g.NumNodes()),
		NumEdges: uint32(g.NumEdges()),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for u := 0; u < g.NumNodes(); u++ {
		edges := g.OutEdges(u)
		if err := binary.Write(cw, binary.LittleEndian, uint32(len(edges))); err != nil {
			return fmt.Errorf("write edge count for node %d: %w", u, err)
		}
		for _, e := range edges {
			if err := writeEdge(cw, e); err != nil {
				return fmt.Errorf("write edge %d->%d: %w", u, e.To, err)
			}
		}
	}

	// CRC32 trailer over everything written so far.
	if err := binary.Write(w, binary.LittleEndian, cw.hash.Sum32()); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	return nil
}

func writeEdge(w io.Writer, e Edge) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(e.To)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.Length); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Geometry))); err != nil {
		return err
	}
	for _, p := range e.Geometry {
		if err := binary.Write(w, binary.LittleEndian, [3]float64{p.X, p.Y, p.Z}); err != nil {
			return err
		}
	}
	return nil
}

// Read deserializes a graph written by Write. Structural corruption (bad
// magic, truncation, checksum mismatch, absurd counts) returns an error with
// no partial graph. Content that decodes but violates the graph invariants
// (an out-of-range destination, a negative length) returns a Graph in the
// invalid state; callers must check Valid.
func Read(r io.Reader) (*Graph, error) {
	cr := &crc32Reader{r: r, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}

	adj := make([][]Edge, hdr.NumNodes)
	var totalEdges uint32

	for u := uint32(0); u < hdr.NumNodes; u++ {
		var count uint32
		if err := binary.Read(cr, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("read edge count for node %d: %w", u, err)
		}
		totalEdges += count
		if totalEdges > hdr.NumEdges {
			return nil, fmt.Errorf("edge counts exceed header total %d", hdr.NumEdges)
		}
		if count == 0 {
			continue
		}
		edges := make([]Edge, 0, count)
		for i := uint32(0); i < count; i++ {
			e, err := readEdge(cr)
			if err != nil {
				return nil, fmt.Errorf("read edge %d of node %d: %w", i, u, err)
			}
			edges = append(edges, e)
		}
		adj[u] = edges
	}

	if totalEdges != hdr.NumEdges {
		return nil, fmt.Errorf("edge count mismatch: header %d, found %d", hdr.NumEdges, totalEdges)
	}

	computed := cr.hash.Sum32()
	var stored uint32
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if stored != computed {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", stored, computed)
	}

	// Range and sign violations surface as an invalid graph, not an error:
	// the caller gets a fully formed result with a reason, never a partially
	// populated one.
	return New(adj), nil
}

func readEdge(r io.Reader) (Edge, error) {
	var to uint32
	if err := binary.Read(r, binary.LittleEndian, &to); err != nil {
		return Edge{}, err
	}
	var length float64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return Edge{}, err
	}
	var npoints uint32
	if err := binary.Read(r, binary.LittleEndian, &npoints); err != nil {
		return Edge{}, err
	}
	if npoints > maxPointsPerEdge {
		return Edge{}, fmt.Errorf("point count %d exceeds limit %d", npoints, maxPointsPerEdge)
	}

	pts := make([]geom.Point, npoints)
	for i := range pts {
		var xyz [3]float64
		if err := binary.Read(r, binary.LittleEndian, &xyz); err != nil {
			return Edge{}, err
		}
		pts[i] = geom.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}

	return Edge{To: int(to), Length: length, Geometry: pts}, nil
}

// WriteFile serializes the graph to path, writing to a temp file first and
// renaming atomically so a crash never leaves a truncated graph behind.
func WriteFile(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, g); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadFile deserializes a graph from path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return Read(bufio.NewReader(f))
}

// crc32Writer mirrors everything written into a running checksum.
type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

// crc32Reader mirrors everything read into a running checksum.
type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
