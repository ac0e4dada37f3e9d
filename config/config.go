// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Tank         TankConfig         `yaml:"tank"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Population   PopulationConfig   `yaml:"population"`
	Steering     SteeringConfig     `yaml:"steering"`
	Lifecycle    LifecycleConfig    `yaml:"lifecycle"`
	Predation    PredationConfig    `yaml:"predation"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Food         FoodConfig         `yaml:"food"`
	Day          DayConfig          `yaml:"day"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Species      []SpeciesConfig    `yaml:"species"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// TankConfig holds tank and window dimensions.
type TankConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`
	CellSize float64 `yaml:"cell_size"` // spatial index bucket size, >= awareness radius
	MaxAccel float64 `yaml:"max_accel"` // cap on the summed steering acceleration
}

// PopulationConfig holds population seeding and capacity parameters.
type PopulationConfig struct {
	Initial        int     `yaml:"initial"`
	SoftCap        int     `yaml:"soft_cap"`        // reproduction probability reaches 0 here
	PredatorChance float64 `yaml:"predator_chance"` // chance an initial agent is a predator
}

// SteeringConfig holds the per-behavior radii, weights and force limits.
type SteeringConfig struct {
	// Wall avoidance
	WallSoftMargin float64 `yaml:"wall_soft_margin"`
	WallHardMargin float64 `yaml:"wall_hard_margin"`
	WallForce      float64 `yaml:"wall_force"`

	// Territorial duels (predators)
	TerritorialRange    float64 `yaml:"territorial_range"`
	TerritorialForce    float64 `yaml:"territorial_force"`
	TerritorialDuration float64 `yaml:"territorial_duration"` // max seconds per duel
	TerritorialCooldown float64 `yaml:"territorial_cooldown"` // seconds rivals are ignored after a duel

	// Flee (prey)
	FleeRadius          float64 `yaml:"flee_radius"`
	FleeForce           float64 `yaml:"flee_force"`
	FleeMaxBoost        float64 `yaml:"flee_max_boost"`         // speed/force multiplier at contact
	LowEnergyFleeFactor float64 `yaml:"low_energy_flee_factor"` // strength multiplier when exhausted
	LowEnergyFleeBoost  float64 `yaml:"low_energy_flee_boost"`  // speed multiplier ceiling when exhausted

	// Food seeking
	FoodSearchRadius float64 `yaml:"food_search_radius"`
	FoodForce        float64 `yaml:"food_force"`
	Stickiness       float64 `yaml:"stickiness"` // new candidate must be closer than current*this
	MaxFoodChasers   int     `yaml:"max_food_chasers"`

	// Hunting (predators)
	HuntRadius     float64 `yaml:"hunt_radius"`
	HuntHysteresis float64 `yaml:"hunt_hysteresis"` // prior target kept out to radius*this
	HuntForce      float64 `yaml:"hunt_force"`
	HuntMaxBoost   float64 `yaml:"hunt_max_boost"`
	PreySizeRatio  float64 `yaml:"prey_size_ratio"` // prey must be smaller than predator*this

	// Mate seeking
	MateCheckInterval float64 `yaml:"mate_check_interval"`
	MateChance        float64 `yaml:"mate_chance"`
	MateScanRadius    float64 `yaml:"mate_scan_radius"`
	MateForce         float64 `yaml:"mate_force"`

	// Flocking
	FlockRadius      float64 `yaml:"flock_radius"`
	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	FlockForce       float64 `yaml:"flock_force"`

	// Wander
	WanderForce     float64 `yaml:"wander_force"`
	WanderFrequency float64 `yaml:"wander_frequency"` // noise samples per second
	WanderSmoothing float64 `yaml:"wander_smoothing"` // per-second approach rate of the wander angle

	// Speed modulation
	CruiseFactor      float64 `yaml:"cruise_factor"`       // fraction of base speed when idle
	CursorRadius      float64 `yaml:"cursor_radius"`
	CursorSlowdown    float64 `yaml:"cursor_slowdown"`     // max speed reduction next to the cursor
	NightSlowdown     float64 `yaml:"night_slowdown"`      // speed reduction at full drowsiness
	LowEnergySlowdown float64 `yaml:"low_energy_slowdown"` // speed reduction below lifecycle.low_energy
	VisualTurnRate    float64 `yaml:"visual_turn_rate"`    // per-second smoothing of the visual heading
}

// LifecycleConfig holds energy, growth, aging and death parameters.
type LifecycleConfig struct {
	MaxEnergy           float64 `yaml:"max_energy"`
	InitialEnergy       float64 `yaml:"initial_energy"`
	PreyEnergyDecay     float64 `yaml:"prey_energy_decay"`     // energy per second
	PredatorEnergyDecay float64 `yaml:"predator_energy_decay"` // energy per second
	LowEnergy           float64 `yaml:"low_energy"`
	HungerThreshold     float64 `yaml:"hunger_threshold"`
	CriticalHunger      float64 `yaml:"critical_hunger"`
	IllnessRate         float64 `yaml:"illness_rate"` // sudden death probability per second

	PreyLifespanMin     float64 `yaml:"prey_lifespan_min"`
	PreyLifespanMax     float64 `yaml:"prey_lifespan_max"`
	PredatorLifespanMin float64 `yaml:"predator_lifespan_min"`
	PredatorLifespanMax float64 `yaml:"predator_lifespan_max"`

	FeedEnergy      float64 `yaml:"feed_energy"`
	FeedScore       int     `yaml:"feed_score"`
	FeedCooldownMin float64 `yaml:"feed_cooldown_min"`
	FeedCooldownMax float64 `yaml:"feed_cooldown_max"`
	EatDistance     float64 `yaml:"eat_distance"` // added to half the agent size

	JuvenileGrowth  float64 `yaml:"juvenile_growth"`  // starting growth of offspring (fraction of adult size)
	GrowthPerMeal   float64 `yaml:"growth_per_meal"`  // fraction of the remaining gap gained per meal
	GrowthOvershoot float64 `yaml:"growth_overshoot"` // growth aims this far past the cap, then clamps

	FadeDuration float64 `yaml:"fade_duration"` // seconds for the dead drift-and-fade
	DriftSpeed   float64 `yaml:"drift_speed"`   // upward drift of dead agents
}

// PredationConfig holds catch rewards and chase limits.
type PredationConfig struct {
	CatchEnergy  float64 `yaml:"catch_energy"`
	CatchScore   int     `yaml:"catch_score"`
	DigestMin    float64 `yaml:"digest_min"`
	DigestMax    float64 `yaml:"digest_max"`
	MaxChase     float64 `yaml:"max_chase"`      // seconds before a chase is abandoned
	GiveUpFactor float64 `yaml:"give_up_factor"` // give-up radius = hunt_radius * this
	NewbornGrace float64 `yaml:"newborn_grace"`  // hunt cooldown for newborn predators
}

// ReproductionConfig holds mating parameters.
type ReproductionConfig struct {
	MaturityAge     float64 `yaml:"maturity_age"`
	EnergyThreshold float64 `yaml:"energy_threshold"`
	EnergyCost      float64 `yaml:"energy_cost"`
	CooldownMin     float64 `yaml:"cooldown_min"`
	CooldownMax     float64 `yaml:"cooldown_max"`
	MinOffspring    int     `yaml:"min_offspring"`
	MaxOffspring    int     `yaml:"max_offspring"`
	SpawnJitter     float64 `yaml:"spawn_jitter"`
	OffspringEnergy float64 `yaml:"offspring_energy"`
	ContactFactor   float64 `yaml:"contact_factor"` // contact when distance < (sizeA+sizeB)*this
}

// FoodConfig holds pellet physics and the auto-feeder.
type FoodConfig struct {
	Gravity          float64 `yaml:"gravity"`
	Drag             float64 `yaml:"drag"` // per-second decay of fall speed
	Radius           float64 `yaml:"radius"`
	AutoFeed         bool    `yaml:"auto_feed"`
	AutoFeedInterval float64 `yaml:"auto_feed_interval"`
	AutoFeedCount    int     `yaml:"auto_feed_count"`
}

// DayConfig holds the day/night cycle. Length 0 disables the automatic cycle.
type DayConfig struct {
	Length        float64 `yaml:"length"`
	NightFraction float64 `yaml:"night_fraction"`
	Fade          float64 `yaml:"fade"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// SpeciesConfig is one catalog record as written in YAML.
type SpeciesConfig struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	AdultSize   float64 `yaml:"adult_size"`
	BaseSpeed   float64 `yaml:"base_speed"`
	Predator    bool    `yaml:"predator"`
	Temperament string  `yaml:"temperament"`
	MaxGrowth   float64 `yaml:"max_growth"` // size cap as a multiple of adult size (default 1)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Width        float64        // Tank.Width as float64
	Height       float64        // Tank.Height as float64
	SpeciesIndex map[string]int // id -> index into Species
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks ranges that the simulation relies on.
func (c *Config) Validate() error {
	if c.Tank.Width <= 0 || c.Tank.Height <= 0 {
		return fmt.Errorf("tank: width and height must be > 0")
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics: dt must be > 0")
	}
	if c.Physics.CellSize <= 0 {
		return fmt.Errorf("physics: cell_size must be > 0")
	}
	s := &c.Steering
	// Every radius answered from a single 3x3 neighborhood query must fit in one cell.
	radii := []struct {
		name string
		r    float64
	}{
		{"flock_radius", s.FlockRadius},
		{"separation_radius", s.SeparationRadius},
		{"territorial_range", s.TerritorialRange},
		{"flee_radius", s.FleeRadius},
		{"hunt_radius", s.HuntRadius},
		{"mate_scan_radius", s.MateScanRadius},
	}
	for _, r := range radii {
		if r.r > c.Physics.CellSize {
			return fmt.Errorf("steering: %s (%.1f) exceeds physics.cell_size (%.1f)", r.name, r.r, c.Physics.CellSize)
		}
	}
	if s.WallHardMargin >= s.WallSoftMargin {
		return fmt.Errorf("steering: wall_hard_margin must be < wall_soft_margin")
	}
	if s.Stickiness <= 0 || s.Stickiness > 1 {
		return fmt.Errorf("steering: stickiness must be in (0, 1]")
	}
	if s.LowEnergyFleeBoost < 1 || s.LowEnergyFleeBoost > s.FleeMaxBoost {
		return fmt.Errorf("steering: low_energy_flee_boost must be in [1, flee_max_boost]")
	}
	l := &c.Lifecycle
	if l.MaxEnergy <= 0 {
		return fmt.Errorf("lifecycle: max_energy must be > 0")
	}
	if l.FeedCooldownMin > l.FeedCooldownMax {
		return fmt.Errorf("lifecycle: feed_cooldown_min > feed_cooldown_max")
	}
	if l.JuvenileGrowth <= 0 || l.JuvenileGrowth > 1 {
		return fmt.Errorf("lifecycle: juvenile_growth must be in (0, 1]")
	}
	if l.GrowthPerMeal <= 0 || l.GrowthPerMeal > 1 {
		return fmt.Errorf("lifecycle: growth_per_meal must be in (0, 1]")
	}
	if l.GrowthOvershoot <= 0 {
		return fmt.Errorf("lifecycle: growth_overshoot must be > 0")
	}
	// Past the hysteresis radius steering drops the target without a verdict, so the
	// give-up radius must sit inside it for abandoned hunts to be reported.
	if c.Predation.GiveUpFactor < 1 || c.Predation.GiveUpFactor > s.HuntHysteresis {
		return fmt.Errorf("predation: give_up_factor must be in [1, steering.hunt_hysteresis]")
	}
	if c.Predation.DigestMin > c.Predation.DigestMax {
		return fmt.Errorf("predation: digest_min > digest_max")
	}
	r := &c.Reproduction
	if r.MinOffspring < 1 || r.MaxOffspring < r.MinOffspring {
		return fmt.Errorf("reproduction: need 1 <= min_offspring <= max_offspring")
	}
	if r.CooldownMin > r.CooldownMax {
		return fmt.Errorf("reproduction: cooldown_min > cooldown_max")
	}
	if len(c.Species) == 0 {
		return fmt.Errorf("species: catalog is empty")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Width = float64(c.Tank.Width)
	c.Derived.Height = float64(c.Tank.Height)

	for i := range c.Species {
		if c.Species[i].MaxGrowth == 0 {
			c.Species[i].MaxGrowth = 1.0
		}
	}

	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	for i, sp := range c.Species {
		c.Derived.SpeciesIndex[sp.ID] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy that can be modified without touching c.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = append([]SpeciesConfig(nil), c.Species...)
	out.Derived.SpeciesIndex = make(map[string]int, len(c.Derived.SpeciesIndex))
	for k, v := range c.Derived.SpeciesIndex {
		out.Derived.SpeciesIndex[k] = v
	}
	return &out
}
