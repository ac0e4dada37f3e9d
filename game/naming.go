package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/telemetry"
)

var (
	nameOnsets = []string{"b", "bl", "br", "d", "f", "fl", "g", "gl", "k", "l", "m", "n", "p", "pl", "r", "s", "sh", "sp", "t", "w", "z"}
	nameVowels = []string{"a", "e", "i", "o", "u", "ee", "oo", "ai", "ou"}
	nameCodas  = []string{"", "", "", "b", "ck", "l", "m", "n", "p", "r", "s", "x", "zz"}
)

// NameGenerator hands out unique fish names. Generated names come from a seeded syllable
// source, so two tanks with the same seed name their fish the same way.
type NameGenerator struct {
	rng   *rand.Rand
	inUse map[string]struct{}
}

// NewNameGenerator creates a generator seeded from seed.
func NewNameGenerator(seed int64) *NameGenerator {
	return &NameGenerator{
		rng:   rand.New(rand.NewSource(seed ^ 0x6e616d6573)),
		inUse: make(map[string]struct{}),
	}
}

// Next generates and reserves a fresh name.
func (n *NameGenerator) Next() string {
	var b strings.Builder
	syllables := 2 + n.rng.Intn(2)
	for i := 0; i < syllables; i++ {
		b.WriteString(nameOnsets[n.rng.Intn(len(nameOnsets))])
		b.WriteString(nameVowels[n.rng.Intn(len(nameVowels))])
		if i == syllables-1 {
			b.WriteString(nameCodas[n.rng.Intn(len(nameCodas))])
		}
	}
	name := b.String()
	return n.Reserve(strings.ToUpper(name[:1]) + name[1:])
}

// Reserve claims name and returns it, or the first free "name II", "name III" variant if
// it is taken.
func (n *NameGenerator) Reserve(name string) string {
	candidate := name
	for i := 2; n.InUse(candidate); i++ {
		candidate = name + " " + roman(i)
	}
	n.inUse[candidate] = struct{}{}
	return candidate
}

// Release frees name for reuse.
func (n *NameGenerator) Release(name string) {
	delete(n.inUse, name)
}

// InUse reports whether a live fish carries name.
func (n *NameGenerator) InUse(name string) bool {
	_, ok := n.inUse[name]
	return ok
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// NameRequest describes the fish an external service is asked to name.
type NameRequest struct {
	Species     string
	Temperament string
	Placeholder string // the generated name the fish carries until the answer arrives
}

// Namer suggests a name for a fish. Implementations may be slow or fail; the tank keeps
// the generated name in that case.
type Namer interface {
	Name(ctx context.Context, req NameRequest) (string, error)
}

type nameResult struct {
	e     ecs.Entity
	token uint32
	name  string
}

// enricher runs Namer calls off the tick. Answers are queued and applied at the start of
// the next Step.
type enricher struct {
	namer   Namer
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	results []nameResult
}

func newEnricher(namer Namer, timeout time.Duration) *enricher {
	ctx, cancel := context.WithCancel(context.Background())
	return &enricher{
		namer:   namer,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// request starts a detached lookup for entity e. token is the agent's name token at
// request time; a later rename bumps it and the answer is dropped.
func (en *enricher) request(e ecs.Entity, token uint32, req NameRequest) {
	en.wg.Add(1)
	go func() {
		defer en.wg.Done()

		ctx, cancel := context.WithTimeout(en.ctx, en.timeout)
		defer cancel()

		name, err := en.namer.Name(ctx, req)
		if err != nil {
			slog.Debug("name enrichment failed", "placeholder", req.Placeholder, "error", err)
			return
		}

		en.mu.Lock()
		en.results = append(en.results, nameResult{e: e, token: token, name: name})
		en.mu.Unlock()
	}()
}

// take returns and clears the queued answers.
func (en *enricher) take() []nameResult {
	en.mu.Lock()
	defer en.mu.Unlock()
	out := en.results
	en.results = nil
	return out
}

// stop cancels outstanding lookups and waits for them to return.
func (en *enricher) stop() {
	en.cancel()
	en.wg.Wait()
}

// drainNames applies the enrichment answers that arrived since the last tick.
func (g *Game) drainNames() {
	if g.namer == nil {
		return
	}
	for _, r := range g.namer.take() {
		g.applyName(r)
	}
}

// applyName installs an enriched name unless the fish is gone or its identity was
// settled in the meantime.
func (g *Game) applyName(r nameResult) bool {
	if !g.world.Alive(r.e) {
		return false
	}
	a := g.view(r.e)
	if a.Vit.Dead || a.ID.NameFinalized || a.ID.NameToken != r.token {
		return false
	}
	name := strings.TrimSpace(r.name)
	if name == "" {
		return false
	}

	old := a.ID.Name
	if name != old {
		g.names.Release(old)
		a.ID.Name = g.names.Reserve(name)
	}
	a.ID.NameFinalized = true
	g.logEvent(telemetry.EventNamed, &a, old, "")
	return true
}

// Rename gives a live agent a final, player-chosen name. Pending enrichment for the
// agent is discarded.
func (g *Game) Rename(e ecs.Entity, name string) error {
	a, ok := g.Agent(e)
	if !ok {
		return errors.New("rename: agent not in tank")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("rename: empty name")
	}
	if name != a.ID.Name {
		g.names.Release(a.ID.Name)
		a.ID.Name = g.names.Reserve(name)
	}
	a.ID.NameFinalized = true
	a.ID.NameToken++
	return nil
}

