// Agent spawning — creates the initial population with demographics,
// trait vectors, orientations, and starting wealth, and spawns newborns
// during simulation.
package agents

import (
	"fmt"

	"github.com/oakvale/townsim/internal/entropy"
	"github.com/oakvale/townsim/internal/personality"
)

// Spawner creates agents for the simulation. IDs are issued densely from
// a monotonic counter.
type Spawner struct {
	rng    *entropy.Seeded
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    entropy.NewSeeded(seed + 300),
		nextID: 1,
	}
}

// SetNextID sets the next agent ID to be issued (used when restoring from DB).
func (s *Spawner) SetNextID(id AgentID) {
	s.nextID = id
}

// NextID returns the next ID that would be issued.
func (s *Spawner) NextID() AgentID {
	return s.nextID
}

// SpawnAdult creates a working-age agent for world bootstrap.
func (s *Spawner) SpawnAdult() *Agent {
	a := s.spawnOne()
	a.Age = s.weightedAdultAge()
	return a
}

// SpawnChildOf creates a newborn with lineage links to its parents and a
// trait vector inherited from them. father may be nil (died during the
// pregnancy); inheritance then draws from the mother alone. The caller
// wires household membership and the parents' Children lists.
func (s *Spawner) SpawnChildOf(mother, father *Agent, tick uint64) *Agent {
	a := s.spawnOne()
	a.Age = 0
	a.BornTick = tick

	fatherTraits := mother.Traits
	if father != nil {
		fatherTraits = father.Traits
		fid := father.ID
		a.FatherID = &fid
	}
	a.Traits = personality.Inherit(mother.Traits, fatherTraits, s.rng)

	mid := mother.ID
	a.MotherID = &mid
	a.HouseholdID = mother.HouseholdID
	a.Location = mother.Location
	a.Money = 0
	return a
}

func (s *Spawner) spawnOne() *Agent {
	id := s.nextID
	s.nextID++

	sex := SexMale
	if s.rng.Float() < 0.5 {
		sex = SexFemale
	}

	return &Agent{
		ID:          id,
		Name:        s.generateName(sex),
		Sex:         sex,
		Orientation: s.rollOrientation(),
		Alive:       true,
		Traits:      personality.Random(s.rng),
		Money:       int64(20 + s.rng.Intn(80)),
	}
}

// rollOrientation assigns orientation with rough real-world base rates.
func (s *Spawner) rollOrientation() Orientation {
	r := s.rng.Float()
	switch {
	case r < 0.88:
		return OrientationHeterosexual
	case r < 0.93:
		return OrientationHomosexual
	case r < 0.98:
		return OrientationBisexual
	default:
		return OrientationAsexual
	}
}

func (s *Spawner) weightedAdultAge() uint16 {
	// Bell curve centered around 32, clamped to 18–60.
	age := 32.0 + s.rng.NormFloat()*10.0
	if age < 18 {
		age = 18
	}
	if age > 60 {
		age = 60
	}
	return uint16(age)
}

var maleNames = []string{
	"Alden", "Bram", "Cedric", "Dunstan", "Edwin", "Finn", "Garrick",
	"Hugh", "Ivo", "Jorah", "Kenrick", "Leof", "Merek", "Osric",
	"Piers", "Rowan", "Silas", "Tobin", "Ulric", "Wystan",
}

var femaleNames = []string{
	"Adela", "Beatrix", "Cora", "Delia", "Elara", "Frida", "Gwen",
	"Hilda", "Isolde", "Jonet", "Kasia", "Livia", "Mirela", "Nessa",
	"Odette", "Petra", "Rhoswen", "Sybil", "Tamsin", "Verena",
}

var surnames = []string{
	"Ashdown", "Briarwood", "Coppersmith", "Dray", "Elmhurst", "Fletcher",
	"Garrow", "Hartwell", "Ironside", "Kettleby", "Larkspur", "Millbrook",
	"Norwood", "Oakes", "Pennyworth", "Quill", "Redfern", "Stonebridge",
	"Thatcher", "Underhill", "Vance", "Wexley",
}

func (s *Spawner) generateName(sex Sex) string {
	var given string
	if sex == SexFemale {
		given = femaleNames[s.rng.Intn(len(femaleNames))]
	} else {
		given = maleNames[s.rng.Intn(len(maleNames))]
	}
	return fmt.Sprintf("%s %s", given, surnames[s.rng.Intn(len(surnames))])
}
