package physics

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tuning collects the empirical constants of the resolver. The restitution
// multiplier and separation bias were tuned by play, not derived, so they
// stay configurable rather than baked in.
type Tuning struct {
	// Restitution scales the contact impulse. Values above 1 add energy.
	Restitution float32 `yaml:"restitution"`
	// SeparationBias is the positional push applied to overlapping bodies
	// that have no meaningful relative velocity.
	SeparationBias float32 `yaml:"separation_bias"`
	// RestEpsilon is the speed below which a body counts as at rest.
	RestEpsilon float32 `yaml:"rest_epsilon"`

	// Octree extent and subdivision limits for the broad phase.
	OctreeHalfWidth float32 `yaml:"octree_half_width"`
	OctreeDepth     int     `yaml:"octree_depth"`
	OctreeOccupancy int     `yaml:"octree_occupancy"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Restitution:     1.52,
		SeparationBias:  0.1,
		RestEpsilon:     0.05,
		OctreeHalfWidth: 1000,
		OctreeDepth:     8,
		OctreeOccupancy: 8,
	}
}

// LoadTuning reads tuning values from a YAML file. A missing file is not an
// error and yields the defaults; a present but unreadable one reports back
// while still returning usable defaults.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTuning(), nil
		}
		return DefaultTuning(), errors.Wrapf(err, "tuning file %s", path)
	}
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultTuning(), errors.Wrapf(err, "tuning file %s", path)
	}
	return t, nil
}
