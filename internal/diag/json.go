package diag

import (
	"encoding/json"
	"io"
	"math"
	"os"
)

const (
	PacketSchema  = "compactstar.diag.packet"
	CatalogSchema = "compactstar.diag.catalog"
	SchemaVersion = 1
)

// packetLine is the JSON-lines shape of one serialized packet. Scalars are a
// map so encoding/json emits them in lexicographic key order.
type packetLine struct {
	Schema        string                `json:"schema"`
	SchemaVersion int                   `json:"schema_version"`
	Producer      string                `json:"producer"`
	RunID         string                `json:"run_id"`
	Time          float64               `json:"time"`
	Step          int                   `json:"step"`
	Scalars       map[string]scalarJSON `json:"scalars"`
	Contract      []string              `json:"contract,omitempty"`
	Messages      *messagesJSON         `json:"messages,omitempty"`
}

type scalarJSON struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Source      string  `json:"source_hint"`
	Finite      bool    `json:"finite"`
	Cadence     Cadence `json:"cadence"`
	UnitOK      *bool   `json:"unit_ok,omitempty"`
}

type messagesJSON struct {
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// WriteLine serializes the packet as one JSON object followed by a newline.
// When a catalog is supplied, each scalar whose key is declared by this
// packet's producer gets a unit_ok flag comparing snapshot and schema units.
func (p *Packet) WriteLine(w io.Writer, runID string, catalog *Catalog) error {
	line := packetLine{
		Schema:        PacketSchema,
		SchemaVersion: SchemaVersion,
		Producer:      p.Producer,
		RunID:         runID,
		Time:          p.Time,
		Step:          p.Step,
		Scalars:       make(map[string]scalarJSON, len(p.scalars)),
		Contract:      p.contract,
	}

	var schema *Producer
	if catalog != nil {
		schema, _ = catalog.Producer(p.Producer)
	}

	for key, s := range p.scalars {
		sj := scalarJSON{
			Value:       sanitize(s.Value),
			Unit:        s.Unit,
			Description: s.Description,
			Source:      s.Source,
			Finite:      !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0),
			Cadence:     s.Cadence,
		}
		if schema != nil {
			if d, ok := schema.Descriptor(key); ok {
				match := d.Unit == s.Unit
				sj.UnitOK = &match
			}
		}
		line.Scalars[key] = sj
	}

	if len(p.warnings)+len(p.errors)+len(p.notes) > 0 {
		line.Messages = &messagesJSON{
			Warnings: p.warnings,
			Errors:   p.errors,
			Notes:    p.notes,
		}
	}

	enc := json.NewEncoder(w)
	return enc.Encode(line)
}

// sanitize maps non-finite values onto zero so the line stays valid JSON; the
// finite flag carries the real story.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type catalogFile struct {
	Schema        string               `json:"schema"`
	SchemaVersion int                  `json:"schema_version"`
	Producers     map[string]*Producer `json:"producers"`
}

// WriteJSON serializes the catalog, producers in lexicographic order.
func (c *Catalog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogFile{
		Schema:        CatalogSchema,
		SchemaVersion: SchemaVersion,
		Producers:     c.producers,
	})
}

// SaveJSON writes the catalog to path, truncating any existing file.
func (c *Catalog) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.WriteJSON(f)
}
