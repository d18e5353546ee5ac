package bloom

import (
	"math/rand"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890")

// RandString returns a random alphanumeric string of length n.
// copied from https://stackoverflow.com/questions/22892120/how-to-generate-a-random-string-of-a-fixed-length-in-go/22892986#22892986
func RandString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// RandKeys returns count distinct random keys of the given length.
func RandKeys(count, length int) []*Key {
	seen := make(map[string]bool, count)
	keys := make([]*Key, 0, count)
	for len(keys) < count {
		s := RandString(length)
		if seen[s] {
			continue
		}
		seen[s] = true
		keys = append(keys, NewStringKey(s))
	}
	return keys
}
