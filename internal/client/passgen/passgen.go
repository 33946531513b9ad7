// Package passgen generates memorable deposit passwords: two capitalized
// words, two numbers, a symbol and a short hex tag, shuffled and joined by
// random separators. All randomness comes from crypto/rand.
package passgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	Symbols    = "!@#$%&*+=?^~"
	Separators = "-_.~"
)

var adjectives = []string{
	"amber", "bold", "brave", "bright", "calm", "clever", "cosmic", "crisp",
	"daring", "eager", "electric", "fancy", "fierce", "gentle", "golden", "grand",
	"happy", "hidden", "humble", "icy", "jolly", "keen", "lively", "lucky",
	"mighty", "misty", "noble", "polar", "proud", "quick", "quiet", "rapid",
	"rustic", "silent", "silver", "smooth", "solar", "steady", "swift", "vivid",
}

var nouns = []string{
	"anchor", "badger", "beacon", "canyon", "comet", "condor", "coral", "falcon",
	"forest", "glacier", "harbor", "island", "jaguar", "lantern", "meadow", "meteor",
	"nebula", "ocean", "otter", "panda", "pebble", "phoenix", "pioneer", "prairie",
	"quasar", "raven", "river", "rocket", "summit", "tiger", "thunder", "tundra",
	"valley", "voyager", "walrus", "willow", "wizard", "zebra", "zenith", "harvest",
}

// Generator draws from Rand, which defaults to crypto/rand.Reader.
type Generator struct {
	Rand io.Reader
}

func New() *Generator {
	return &Generator{Rand: rand.Reader}
}

// Generate returns a fresh password using crypto/rand.
func Generate() (string, error) {
	return New().Generate()
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.Rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random: %w", err)
	}
	return int(v.Int64()), nil
}

func (g *Generator) pick(list []string) (string, error) {
	i, err := g.intn(len(list))
	if err != nil {
		return "", err
	}
	return list[i], nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func (g *Generator) parts() ([]string, error) {
	adj, err := g.pick(adjectives)
	if err != nil {
		return nil, err
	}
	noun, err := g.pick(nouns)
	if err != nil {
		return nil, err
	}
	n1, err := g.intn(1000)
	if err != nil {
		return nil, err
	}
	n2, err := g.intn(1000)
	if err != nil {
		return nil, err
	}
	sym, err := g.intn(len(Symbols))
	if err != nil {
		return nil, err
	}

	tag := make([]byte, 2)
	if _, err := io.ReadFull(g.Rand, tag); err != nil {
		return nil, fmt.Errorf("random: %w", err)
	}

	return []string{
		capitalize(adj),
		capitalize(noun),
		strconv.Itoa(n1),
		strconv.Itoa(n2),
		string(Symbols[sym]),
		hex.EncodeToString(tag),
	}, nil
}

// shuffle is Fisher-Yates.
func (g *Generator) shuffle(parts []string) error {
	for i := len(parts) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return err
		}
		parts[i], parts[j] = parts[j], parts[i]
	}
	return nil
}

func (g *Generator) Generate() (string, error) {
	parts, err := g.parts()
	if err != nil {
		return "", err
	}
	if err := g.shuffle(parts); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			s, err := g.intn(len(Separators))
			if err != nil {
				return "", err
			}
			b.WriteByte(Separators[s])
		}
		b.WriteString(p)
	}
	return b.String(), nil
}
