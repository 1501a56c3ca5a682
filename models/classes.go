// Package models - Output labels of the hand classifier and their names.
package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Label is the class index produced by the hand classifier.
//
// The numeric values follow the order of the classifier's output vector.
type Label int

const (
	// LeftHand is a left hand.
	LeftHand Label = iota
	// RightHand is a right hand.
	RightHand
	// Background is anything that is not a hand.
	Background
)

// NumLabels is the length of the classifier's output vector.
const NumLabels = 3

// Positive reports whether the label denotes a hand.
func (l Label) Positive() bool {
	return l == LeftHand || l == RightHand
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	return l >= 0 && int(l) < NumLabels
}

func (l Label) String() string {
	return HandClasses.Name(l)
}

// OutputClass represents one classifier label.
type OutputClass struct {
	// The integer index returned by the model.
	Index Label `json:"index" yaml:"index"`
	// The human-readable label.
	Name string `json:"name" yaml:"name"`
}

// ClassSet maps labels to human readable names and back.
type ClassSet struct {
	// Classes in output order.
	Classes []OutputClass
	// nameToIdx for fast lookup by name
	nameToIdx map[string]Label
}

// NewClassSet builds a ClassSet from names given in output order.
//
// Arguments:
//   - names: Exactly NumLabels distinct, non-empty names.
//
// Returns:
//   - *ClassSet: The class set.
//   - error: An error if the number of names is wrong or a name is empty or repeated.
func NewClassSet(names ...string) (*ClassSet, error) {
	if len(names) != NumLabels {
		return nil, errors.Errorf("expected %d class names, got %d", NumLabels, len(names))
	}

	set := &ClassSet{
		Classes:   make([]OutputClass, 0, len(names)),
		nameToIdx: make(map[string]Label, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Errorf("class name %d is empty", i)
		}
		if _, dup := set.nameToIdx[name]; dup {
			return nil, errors.Errorf("class name %q is repeated", name)
		}
		set.Classes = append(set.Classes, OutputClass{Index: Label(i), Name: name})
		set.nameToIdx[name] = Label(i)
	}
	return set, nil
}

// MustClassSet is like NewClassSet but panics on error.
func MustClassSet(names ...string) *ClassSet {
	set, err := NewClassSet(names...)
	if err != nil {
		panic(err)
	}
	return set
}

// HandClasses is the default label map: left, right and bad.
var HandClasses = MustClassSet("left", "right", "bad")

// Name returns the name of l, or a placeholder for unknown labels.
func (s *ClassSet) Name(l Label) string {
	if !l.Valid() || int(l) >= len(s.Classes) {
		return fmt.Sprintf("label(%d)", int(l))
	}
	return s.Classes[l].Name
}

// Index returns the label registered under name.
func (s *ClassSet) Index(name string) (Label, error) {
	idx, ok := s.nameToIdx[name]
	if !ok {
		return -1, errors.Errorf("class name %q not found", name)
	}
	return idx, nil
}

// Names returns the class names in output order.
func (s *ClassSet) Names() []string {
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		names[i] = c.Name
	}
	return names
}
