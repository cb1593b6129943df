package diag

import "sort"

// Descriptor describes one scalar a producer may emit: schema, not value.
type Descriptor struct {
	Key            string  `json:"key"`
	Unit           string  `json:"unit"`
	Description    string  `json:"description"`
	Source         string  `json:"source_hint"`
	DefaultCadence Cadence `json:"default_cadence"`
	Required       bool    `json:"required"`
	Dimensionless  bool    `json:"is_dimensionless"`
}

// Profile is a named, ordered grouping of scalar keys used to auto-select
// output columns.
type Profile struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// Producer is the full schema of scalars one producer may emit.
type Producer struct {
	ContractLines []string     `json:"contract_lines,omitempty"`
	Scalars       []Descriptor `json:"scalars"`
	Profiles      []Profile    `json:"profiles,omitempty"`
}

// Catalog maps producer names to their scalar schemas.
type Catalog struct {
	producers map[string]*Producer
}

func NewCatalog() *Catalog {
	return &Catalog{producers: make(map[string]*Producer)}
}

func (c *Catalog) producer(name string) *Producer {
	p, ok := c.producers[name]
	if !ok {
		p = &Producer{}
		c.producers[name] = p
	}
	return p
}

// AddScalar appends a descriptor to the producer's schema, creating the
// producer entry if absent.
func (c *Catalog) AddScalar(producer string, d Descriptor) {
	if d.DefaultCadence == "" {
		d.DefaultCadence = Always
	}
	p := c.producer(producer)
	p.Scalars = append(p.Scalars, d)
}

func (c *Catalog) AddContractLine(producer, line string) {
	p := c.producer(producer)
	p.ContractLines = append(p.ContractLines, line)
}

func (c *Catalog) AddProfile(producer string, profile Profile) {
	p := c.producer(producer)
	p.Profiles = append(p.Profiles, profile)
}

// Producer returns the schema for name, if registered.
func (c *Catalog) Producer(name string) (*Producer, bool) {
	p, ok := c.producers[name]
	return p, ok
}

// Producers returns all registered producer names in lexicographic order.
func (c *Catalog) Producers() []string {
	names := make([]string, 0, len(c.producers))
	for n := range c.producers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Descriptor looks a scalar key up across a single producer's schema.
func (p *Producer) Descriptor(key string) (Descriptor, bool) {
	for _, d := range p.Scalars {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Profile returns the named profile, if declared.
func (p *Producer) Profile(name string) (Profile, bool) {
	for _, pr := range p.Profiles {
		if pr.Name == name {
			return pr, true
		}
	}
	return Profile{}, false
}

// Find locates a scalar descriptor by key across all producers, returning the
// owning producer name. Keys shared by several producers resolve to the
// lexicographically first producer.
func (c *Catalog) Find(key string) (string, Descriptor, bool) {
	for _, name := range c.Producers() {
		if d, ok := c.producers[name].Descriptor(key); ok {
			return name, d, true
		}
	}
	return "", Descriptor{}, false
}
