package environ

import "iter"

type Pair struct {
	Key, Value string
}

// storage is an ordered associative structure for (string, string) pairs. It acts as a map but
// uses linear search instead, which proves to be more efficient on the amount of entries a
// single request produces. Unlike a multi-map, a key is stored at most once: setting it again
// overrides the value in place.
type storage struct {
	pairs      []Pair
	uniqueBuff []string
}

func (s *storage) Set(key, value string) {
	for i := range s.pairs {
		if s.pairs[i].Key == key {
			s.pairs[i].Value = value
			return
		}
	}

	s.pairs = append(s.pairs, Pair{Key: key, Value: value})
}

// setDefault sets the value only if the key isn't presented yet.
func (s *storage) setDefault(key, value string) {
	if !s.Has(key) {
		s.pairs = append(s.pairs, Pair{Key: key, Value: value})
	}
}

// Get returns a value and a bool, indicating whether the value was found. Keys are
// case-sensitive.
func (s *storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if pair.Key == key {
			return pair.Value, true
		}
	}

	return "", false
}

// Value returns the value corresponding to the key or an empty string.
func (s *storage) Value(key string) string {
	return s.ValueOr(key, "")
}

func (s *storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

func (s *storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Keys returns all the keys in insertion order.
//
// WARNING: calling it twice will override values, returned by the first call. Consider
// copying the returned slice for safe use.
func (s *storage) Keys() []string {
	s.uniqueBuff = s.uniqueBuff[:0]

	for _, pair := range s.pairs {
		s.uniqueBuff = append(s.uniqueBuff, pair.Key)
	}

	return s.uniqueBuff
}

// Iter returns an iterator over the pairs in insertion order.
func (s *storage) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Len returns a number of stored pairs.
func (s *storage) Len() int {
	return len(s.pairs)
}

// Map copies the pairs into a newly allocated map.
func (s *storage) Map() map[string]string {
	m := make(map[string]string, len(s.pairs))
	for _, pair := range s.pairs {
		m[pair.Key] = pair.Value
	}

	return m
}

// Expose exposes the underlying pairs slice.
func (s *storage) Expose() []Pair {
	return s.pairs
}

func (s *storage) clear() {
	s.pairs = s.pairs[:0]
}
