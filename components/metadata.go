package components

// DeathCause is the terminal cause recorded when an agent dies.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseOldAge
	CauseStarved
	CauseEaten
	CauseIllness
)

// String returns the display name for a DeathCause.
func (c DeathCause) String() string {
	names := DeathCauseNames()
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// DeathCauseNames returns the display names for all causes.
// The order matches the DeathCause constants.
func DeathCauseNames() []string {
	return []string{"None", "OldAge", "Starved", "EatenByPredator", "SuddenIllness"}
}

// Status is the per-tick result of updating one agent.
type Status uint8

const (
	StatusAlive Status = iota // keep simulating
	StatusGone                // death animation finished, safe to remove
	StatusEaten               // consumed by a predator, remove immediately
)

// String returns the display name for a Status.
func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusGone:
		return "gone"
	case StatusEaten:
		return "eaten"
	default:
		return "unknown"
	}
}

// EffectKind names an advisory visual effect.
type EffectKind uint8

const (
	EffectSplash  EffectKind = iota // food hits the water
	EffectMunch                     // pellet eaten
	EffectChomp                     // prey caught
	EffectHearts                    // birth
	EffectGhost                     // death animation finished
)

// String returns the display name for an EffectKind.
func (k EffectKind) String() string {
	switch k {
	case EffectSplash:
		return "splash"
	case EffectMunch:
		return "munch"
	case EffectChomp:
		return "chomp"
	case EffectHearts:
		return "hearts"
	case EffectGhost:
		return "ghost"
	default:
		return "unknown"
	}
}

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Max    float64 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
}

// AgentFieldDescriptors returns metadata for the inspector panel of a selected agent.
func AgentFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "energy", Label: "Energy", Format: "%.0f", Max: 100, IsBar: true},
		{ID: "growth", Label: "Growth", Format: "%.2f", Max: 1, IsBar: true},
		{ID: "size", Label: "Size", Format: "%.1f"},
		{ID: "speed", Label: "Speed", Format: "%.1f"},
		{ID: "feed_cooldown", Label: "Feed CD", Format: "%.0fs"},
		{ID: "hunt_cooldown", Label: "Digest", Format: "%.0fs"},
		{ID: "repro_cooldown", Label: "Repro CD", Format: "%.0fs"},
		{ID: "offspring", Label: "Offspring", Format: "%.0f"},
	}
}

// GetAgentValue extracts an agent field value by ID.
func GetAgentValue(kin *Kinematics, id *Identity, bio *Biology, fieldID string) float64 {
	switch fieldID {
	case "energy":
		return bio.Energy
	case "growth":
		return bio.Growth
	case "size":
		return bio.Size(id.Species)
	case "speed":
		return kin.Vel.Len()
	case "feed_cooldown":
		return bio.FeedCooldown
	case "hunt_cooldown":
		return bio.HuntCooldown
	case "repro_cooldown":
		return bio.ReproCooldown
	case "offspring":
		return float64(bio.Offspring)
	default:
		return 0
	}
}
