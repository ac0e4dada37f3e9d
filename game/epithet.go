package game

import (
	"context"
	"hash/fnv"
)

var epithets = map[string][]string{
	"calm":        {"Serene", "Unhurried", "Still"},
	"playful":     {"Bubbly", "Giddy", "Zippy"},
	"skittish":    {"Jumpy", "Timid", "Flighty"},
	"curious":     {"Nosy", "Seeker", "Explorer"},
	"grumpy":      {"Sulky", "Cranky", "Grim"},
	"aggressive":  {"Fierce", "Ravenous", "Terrible"},
	"territorial": {"Warden", "Stubborn", "Keeper"},
}

// EpithetNamer is a local Namer that titles a fish after its temperament,
// e.g. "Bolo the Jumpy". The same placeholder always gets the same title.
type EpithetNamer struct{}

// Name implements Namer.
func (EpithetNamer) Name(ctx context.Context, req NameRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	list, ok := epithets[req.Temperament]
	if !ok {
		return req.Placeholder, nil
	}
	h := fnv.New32a()
	h.Write([]byte(req.Placeholder))
	return req.Placeholder + " the " + list[h.Sum32()%uint32(len(list))], nil
}
