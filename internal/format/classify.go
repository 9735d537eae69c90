package format

import (
	"github.com/ostafen/carver/pkg/table"
)

// Classifier identifies the format of a materialized file from its leading
// bytes alone, independently of how the file was found: the leading
// signature selects a format, whose header check must then pass.
type Classifier struct {
	table   *table.PrefixTable[Label]
	inspect map[Label]func([]byte) bool
}

// NewClassifier builds a classifier recognizing the start signatures and
// the generic magic numbers of every format in ss.
func NewClassifier(ss *SignatureSet) *Classifier {
	c := &Classifier{
		table:   table.New[Label](),
		inspect: make(map[Label]func([]byte) bool, len(ss.specs)),
	}
	for _, spec := range ss.specs {
		for _, st := range spec.starts {
			c.table.Insert(st.Bytes, spec.label)
		}
		for _, m := range spec.magic {
			c.table.Insert(m, spec.label)
		}
		if spec.inspect != nil {
			c.inspect[spec.label] = spec.inspect
		}
	}
	return c
}

// Classify returns the format whose longest known signature prefixes data,
// provided data also passes the header check of that format.
func (c *Classifier) Classify(data []byte) (Label, bool) {
	label, _, ok := c.table.Longest(data)
	if !ok {
		return "", false
	}

	if inspect, ok := c.inspect[label]; ok && !inspect(data) {
		return "", false
	}
	return label, true
}

var defaultClassifier = NewClassifier(DefaultSignatureSet())

// Classify sniffs data against the default signature set.
func Classify(data []byte) (Label, bool) {
	return defaultClassifier.Classify(data)
}
