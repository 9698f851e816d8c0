package progression

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
)

// Progress is the display data of one attribute.
type Progress struct {
	Attribute  attribute.Attribute
	Level      int
	Experience float64
	// NextCost is the experience needed to finish the current level.
	NextCost float64
	// Total is the cumulative experience earned since level 1.
	Total float64
}

// Remaining returns the experience still missing for the next level.
func (p Progress) Remaining() float64 {
	return math.Max(0, p.NextCost-p.Experience)
}

// Fraction returns progress through the current level in [0, 1).
func (p Progress) Fraction() float64 {
	if p.NextCost <= 0 {
		return 0
	}
	return p.Experience / p.NextCost
}

func (p Progress) String() string {
	return fmt.Sprintf("%s %d (%s/%s XP, %s to next)",
		p.Attribute.Key(), p.Level,
		humanize.Comma(int64(p.Experience)),
		humanize.Comma(int64(p.NextCost)),
		humanize.Comma(int64(math.Ceil(p.Remaining()))),
	)
}

// Progress returns the display data of attr for entityID.
func (s *Store) Progress(entityID string, attr attribute.Attribute) Progress {
	r := s.set(entityID).record(attr)
	return Progress{
		Attribute:  attr,
		Level:      r.Level,
		Experience: r.Experience,
		NextCost:   s.curve.Cost(r.Level),
		Total:      s.curve.RequiredExperienceForLevel(r.Level) + r.Experience,
	}
}
