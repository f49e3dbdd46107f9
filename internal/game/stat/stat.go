// Package stat names the six unit statistics shared by souls, bodies and
// status modifiers.
package stat

import (
	"fmt"
	"strings"
)

// Kind identifies one unit statistic.
type Kind int

const (
	HP Kind = iota
	AT
	DF
	AGI
	MAT
	MDF
)

// Growable lists the stats a soul grows per level, in storage order.
var Growable = []Kind{AT, DF, AGI, MAT, MDF}

var kindNames = map[Kind]string{
	HP:  "hp",
	AT:  "at",
	DF:  "df",
	AGI: "agi",
	MAT: "mat",
	MDF: "mdf",
}

// String returns the lower-case stat label.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("stat(%d)", int(k))
}

// Index returns the position of k within Growable, or -1 for HP and unknown kinds.
func (k Kind) Index() int {
	for i, g := range Growable {
		if g == k {
			return i
		}
	}
	return -1
}

// ParseKind converts a case-insensitive label into a Kind.
//
// Postcondition: Returns the Kind and nil, or an error naming the bad label.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Block holds one value per growable stat, indexed as Growable.
type Block [5]int

// Get returns the value for k, or 0 when k is not growable.
func (b Block) Get(k Kind) int {
	i := k.Index()
	if i < 0 {
		return 0
	}
	return b[i]
}

// Set stores v for k; non-growable kinds are ignored.
func (b *Block) Set(k Kind, v int) {
	if i := k.Index(); i >= 0 {
		b[i] = v
	}
}

// FloatBlock holds one float per growable stat, indexed as Growable.
type FloatBlock [5]float64

// Get returns the value for k, or 0 when k is not growable.
func (b FloatBlock) Get(k Kind) float64 {
	i := k.Index()
	if i < 0 {
		return 0
	}
	return b[i]
}

// Set stores v for k; non-growable kinds are ignored.
func (b *FloatBlock) Set(k Kind, v float64) {
	if i := k.Index(); i >= 0 {
		b[i] = v
	}
}
