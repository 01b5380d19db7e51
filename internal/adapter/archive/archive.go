// Package archive exports and imports the house store as zstd compressed
// JSON lines.
package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"mapstate/internal/app/ports"

	"github.com/klauspost/compress/zstd"
)

const formatVersion = 1

// Snapshot is the full content of the house store.
type Snapshot struct {
	CreatedAt time.Time
	Houses    []ports.HouseRecord
	Lists     []ports.HouseListRecord
	Tiles     []ports.TileStoreRow
}

type header struct {
	Kind      string    `json:"kind"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Houses    int       `json:"houses"`
	Lists     int       `json:"lists"`
	Tiles     int       `json:"tiles"`
}

type houseLine struct {
	Kind     string `json:"kind"`
	ID       uint32 `json:"id"`
	Owner    uint32 `json:"owner"`
	NewOwner int32  `json:"new_owner"`
	Paid     int64  `json:"paid"`
	Warnings uint32 `json:"warnings"`
	Name     string `json:"name"`
	TownID   uint32 `json:"town_id"`
	Rent     uint32 `json:"rent"`
	Size     uint32 `json:"size"`
	Beds     uint32 `json:"beds"`
}

type listLine struct {
	Kind    string `json:"kind"`
	HouseID uint32 `json:"house_id"`
	ListID  uint32 `json:"list_id"`
	List    string `json:"list"`
}

type tileLine struct {
	Kind    string `json:"kind"`
	HouseID uint32 `json:"house_id"`
	Data    []byte `json:"data"`
}

// Write encodes snap: a header line, then one line per house, list and
// tile row.
func Write(w io.Writer, snap Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	je := json.NewEncoder(bw)

	lines := []any{header{
		Kind:      "header",
		Version:   formatVersion,
		CreatedAt: snap.CreatedAt.UTC(),
		Houses:    len(snap.Houses),
		Lists:     len(snap.Lists),
		Tiles:     len(snap.Tiles),
	}}
	for _, h := range snap.Houses {
		lines = append(lines, houseLine{
			Kind: "house", ID: h.ID, Owner: h.Owner, NewOwner: h.NewOwner, Paid: h.Paid,
			Warnings: h.Warnings, Name: h.Name, TownID: h.TownID, Rent: h.Rent, Size: h.Size, Beds: h.Beds,
		})
	}
	for _, l := range snap.Lists {
		lines = append(lines, listLine{Kind: "list", HouseID: l.HouseID, ListID: l.ListID, List: l.List})
	}
	for _, t := range snap.Tiles {
		lines = append(lines, tileLine{Kind: "tile", HouseID: t.HouseID, Data: t.Data})
	}
	for _, line := range lines {
		if err := je.Encode(line); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode archive line: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Read decodes an archive written by Write.
func Read(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	var hdr *header
	lineNo := 0
	for sc.Scan() {
		lineNo++
		var kind struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(sc.Bytes(), &kind); err != nil {
			return snap, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if hdr == nil && kind.Kind != "header" {
			return snap, fmt.Errorf("line %d: missing archive header", lineNo)
		}
		switch kind.Kind {
		case "header":
			var h header
			if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
				return snap, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if h.Version != formatVersion {
				return snap, fmt.Errorf("unsupported archive version %d", h.Version)
			}
			hdr = &h
			snap.CreatedAt = h.CreatedAt
		case "house":
			var h houseLine
			if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
				return snap, fmt.Errorf("line %d: %w", lineNo, err)
			}
			snap.Houses = append(snap.Houses, ports.HouseRecord{
				ID: h.ID, Owner: h.Owner, NewOwner: h.NewOwner, Paid: h.Paid, Warnings: h.Warnings,
				Name: h.Name, TownID: h.TownID, Rent: h.Rent, Size: h.Size, Beds: h.Beds,
			})
		case "list":
			var l listLine
			if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
				return snap, fmt.Errorf("line %d: %w", lineNo, err)
			}
			snap.Lists = append(snap.Lists, ports.HouseListRecord{HouseID: l.HouseID, ListID: l.ListID, List: l.List})
		case "tile":
			var t tileLine
			if err := json.Unmarshal(sc.Bytes(), &t); err != nil {
				return snap, fmt.Errorf("line %d: %w", lineNo, err)
			}
			snap.Tiles = append(snap.Tiles, ports.TileStoreRow{HouseID: t.HouseID, Data: t.Data})
		default:
			return snap, fmt.Errorf("line %d: unknown kind %q", lineNo, kind.Kind)
		}
	}
	if err := sc.Err(); err != nil {
		return snap, err
	}
	if hdr == nil {
		return snap, fmt.Errorf("empty archive")
	}
	if len(snap.Houses) != hdr.Houses || len(snap.Lists) != hdr.Lists || len(snap.Tiles) != hdr.Tiles {
		return snap, fmt.Errorf("archive truncated: header announces %d/%d/%d houses/lists/tiles, read %d/%d/%d",
			hdr.Houses, hdr.Lists, hdr.Tiles, len(snap.Houses), len(snap.Lists), len(snap.Tiles))
	}
	return snap, nil
}

func WriteFile(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Write(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Read(f)
}
