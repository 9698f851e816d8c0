package progression_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/progression"
	progressionmock "github.com/cory-johannsen/rpgstat/internal/game/progression/mock"
)

func newStore(t *testing.T, n progression.Notifier) *progression.Store {
	t.Helper()
	return progression.NewStore(progression.NewCurve(progression.DefaultBaseExperience), n, zaptest.NewLogger(t))
}

func TestCurve_RequiredExperience(t *testing.T) {
	c := progression.NewCurve(1000)
	assert.Equal(t, 0.0, c.RequiredExperienceForLevel(0))
	assert.Equal(t, 0.0, c.RequiredExperienceForLevel(1))
	assert.Equal(t, 1000.0, c.RequiredExperienceForLevel(2))
	assert.Equal(t, 3000.0, c.RequiredExperienceForLevel(3))
	assert.Equal(t, 6000.0, c.RequiredExperienceForLevel(4))
	assert.Equal(t, 10000.0, c.RequiredExperienceForLevel(5))
}

func TestNewCurve_NonPositiveBase_Default(t *testing.T) {
	assert.Equal(t, progression.DefaultBaseExperience, progression.NewCurve(0).Base)
	assert.Equal(t, progression.DefaultBaseExperience, progression.NewCurve(-5).Base)
	assert.Equal(t, progression.DefaultBaseExperience, progression.NewCurve(math.NaN()).Base)
}

func TestLevel_UnknownEntity_DefaultsToOne(t *testing.T) {
	s := newStore(t, nil)
	assert.Equal(t, 1, s.Level("ghost", attribute.Strength))
	assert.Equal(t, 0.0, s.Experience("ghost", attribute.Strength))
}

func TestAddExperience_ExactThreshold_LevelsUpOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)
	n.EXPECT().LevelUp("e1", attribute.Strength, 2).Times(1)

	s := newStore(t, n)
	gained := s.AddExperience("e1", attribute.Strength, 1000)
	assert.Equal(t, 1, gained)
	assert.Equal(t, 2, s.Level("e1", attribute.Strength))
	assert.Equal(t, 0.0, s.Experience("e1", attribute.Strength))
}

func TestAddExperience_AtLevelThree_KeepsRemainder(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)
	n.EXPECT().LevelUp("e1", attribute.Dexterity, 4).Times(1)

	s := newStore(t, n)
	s.SetLevel("e1", attribute.Dexterity, 3)
	s.AddExperience("e1", attribute.Dexterity, 5999)
	assert.Equal(t, 4, s.Level("e1", attribute.Dexterity))
	assert.Equal(t, 2999.0, s.Experience("e1", attribute.Dexterity))
}

func TestAddExperience_CrossesSeveralThresholds_OneNotificationPerLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)
	gomock.InOrder(
		n.EXPECT().LevelUp("e1", attribute.Charisma, 2),
		n.EXPECT().LevelUp("e1", attribute.Charisma, 3),
		n.EXPECT().LevelUp("e1", attribute.Charisma, 4),
	)

	s := newStore(t, n)
	gained := s.AddExperience("e1", attribute.Charisma, 6500)
	assert.Equal(t, 3, gained)
	assert.Equal(t, 4, s.Level("e1", attribute.Charisma))
	assert.Equal(t, 500.0, s.Experience("e1", attribute.Charisma))
}

func TestAddExperience_NonPositiveOrNonFinite_NoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)

	s := newStore(t, n)
	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		assert.Equal(t, 0, s.AddExperience("e1", attribute.Agility, amount))
	}
	assert.Equal(t, 1, s.Level("e1", attribute.Agility))
	assert.Equal(t, 0.0, s.Experience("e1", attribute.Agility))
}

func TestSetLevel_ZeroesExperience(t *testing.T) {
	s := newStore(t, nil)
	s.AddExperience("e1", attribute.Constitution, 700)
	s.SetLevel("e1", attribute.Constitution, 6)
	assert.Equal(t, 6, s.Level("e1", attribute.Constitution))
	assert.Equal(t, 0.0, s.Experience("e1", attribute.Constitution))

	s.SetLevel("e1", attribute.Constitution, -3)
	assert.Equal(t, 1, s.Level("e1", attribute.Constitution))
}

func TestHasAndRemove(t *testing.T) {
	s := newStore(t, nil)
	assert.False(t, s.Has("e1"))
	s.Ensure("e1")
	assert.True(t, s.Has("e1"))
	assert.Equal(t, []string{"e1"}, s.Entities())
	s.Remove("e1")
	assert.False(t, s.Has("e1"))
}

func TestPower_AveragesAllAttributes(t *testing.T) {
	s := newStore(t, nil)
	s.SetLevel("e1", attribute.Strength, 7)
	assert.InDelta(t, 2.0, s.Power("e1"), 1e-9)
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := newStore(t, nil)
	s.SetLevel("e1", attribute.Intelligence, 5)
	s.AddExperience("e1", attribute.Intelligence, 1234)

	snap := s.Snapshot("e1")
	require.Len(t, snap, attribute.Count)

	other := newStore(t, nil)
	other.Restore("e2", snap)
	assert.Equal(t, 5, other.Level("e2", attribute.Intelligence))
	assert.Equal(t, 1234.0, other.Experience("e2", attribute.Intelligence))
	assert.Equal(t, 1, other.Level("e2", attribute.Strength))
}

func TestRestore_ClampsInvalidRecords(t *testing.T) {
	s := newStore(t, nil)
	s.Restore("e1", progression.Snapshot{
		attribute.Strength:      {Level: 0, Experience: -4},
		attribute.Dexterity:     {Level: 3, Experience: math.NaN()},
		attribute.Attribute(99): {Level: 9},
	})
	assert.Equal(t, 1, s.Level("e1", attribute.Strength))
	assert.Equal(t, 0.0, s.Experience("e1", attribute.Strength))
	assert.Equal(t, 3, s.Level("e1", attribute.Dexterity))
	assert.Equal(t, 0.0, s.Experience("e1", attribute.Dexterity))
	assert.Equal(t, 1, s.Level("e1", attribute.Charisma))
}

func TestKey_ParseKeyRoundTrip(t *testing.T) {
	key := progression.Key("colony/pawn-7", attribute.Agility)
	assert.Equal(t, "colony/pawn-7/AGL", key)
	id, attr, err := progression.ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, "colony/pawn-7", id)
	assert.Equal(t, attribute.Agility, attr)

	_, _, err = progression.ParseKey("no-separator")
	assert.Error(t, err)
	_, _, err = progression.ParseKey("pawn/LCK")
	assert.Error(t, err)
}

func TestProgress_DisplayData(t *testing.T) {
	s := newStore(t, nil)
	s.SetLevel("e1", attribute.Dexterity, 3)
	s.AddExperience("e1", attribute.Dexterity, 1250)

	p := s.Progress("e1", attribute.Dexterity)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 3000.0, p.NextCost)
	assert.Equal(t, 1750.0, p.Remaining())
	assert.Equal(t, 4250.0, p.Total)
	assert.Equal(t, "DEX 3 (1,250/3,000 XP, 1,750 to next)", p.String())
}

func TestProperty_CostMatchesCurveDifference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(1, 5000).Draw(t, "base")
		level := rapid.IntRange(1, 200).Draw(t, "level")
		c := progression.NewCurve(base)
		diff := c.RequiredExperienceForLevel(level+1) - c.RequiredExperienceForLevel(level)
		if math.Abs(diff-c.Cost(level)) > 1e-6*diff {
			t.Fatalf("cost %v != curve difference %v", c.Cost(level), diff)
		}
	})
}

func TestProperty_DepositsConserveTotalExperience(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := progression.NewStore(progression.NewCurve(1000), nil, zap.NewNop())
		deposits := rapid.SliceOfN(rapid.Float64Range(0, 20000), 1, 20).Draw(t, "deposits")
		var sum float64
		prevLevel := 1
		for _, d := range deposits {
			s.AddExperience("e", attribute.Strength, d)
			sum += d
			p := s.Progress("e", attribute.Strength)
			if p.Level < prevLevel {
				t.Fatalf("level decreased from %d to %d", prevLevel, p.Level)
			}
			prevLevel = p.Level
			if p.Experience < 0 || p.Experience >= p.NextCost {
				t.Fatalf("experience %v outside [0, %v)", p.Experience, p.NextCost)
			}
		}
		total := s.Progress("e", attribute.Strength).Total
		if math.Abs(total-sum) > 1e-6*math.Max(1, sum) {
			t.Fatalf("total %v != deposited %v", total, sum)
		}
	})
}

func TestCurve_ClosedFormMatchesRecurrence(t *testing.T) {
	c := progression.NewCurve(750)
	want := 0.0
	for level := 2; level <= 500; level++ {
		want += c.Base * float64(level-1)
		assert.InDelta(t, want, c.RequiredExperienceForLevel(level), 1e-9*want, "level %d", level)
	}
}

func TestCurve_VeryLargeLevel(t *testing.T) {
	c := progression.NewCurve(1000)
	level := 44_721_360
	assert.InEpsilon(t, 1000*float64(level)*float64(level-1)/2, c.RequiredExperienceForLevel(level), 1e-12)
	assert.Greater(t, c.RequiredExperienceForLevel(progression.MaxLevel), c.RequiredExperienceForLevel(level))

	s := newStore(t, nil)
	s.SetLevel("e", attribute.Strength, level)
	p := s.Progress("e", attribute.Strength)
	assert.Equal(t, level, p.Level)
	assert.Equal(t, c.RequiredExperienceForLevel(level), p.Total)
	assert.NotEmpty(t, p.String())
}

func TestCurve_LevelFor(t *testing.T) {
	c := progression.NewCurve(1000)
	assert.Equal(t, 1, c.LevelFor(0))
	assert.Equal(t, 1, c.LevelFor(999))
	assert.Equal(t, 2, c.LevelFor(1000))
	assert.Equal(t, 3, c.LevelFor(3000))
	assert.Equal(t, 3, c.LevelFor(5999))
	assert.Equal(t, 4, c.LevelFor(6000))
	assert.Equal(t, 1, c.LevelFor(math.NaN()))
	assert.Equal(t, progression.MaxLevel, c.LevelFor(1e30))
}

func TestProperty_LevelForBracketsTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := progression.NewCurve(rapid.Float64Range(1, 5000).Draw(t, "base"))
		total := rapid.Float64Range(0, 1e15).Draw(t, "total")
		level := c.LevelFor(total)
		if level > 1 && c.RequiredExperienceForLevel(level) > total {
			t.Fatalf("level %d needs %v > %v", level, c.RequiredExperienceForLevel(level), total)
		}
		if c.RequiredExperienceForLevel(level+1) <= total {
			t.Fatalf("level %d too low for %v", level, total)
		}
	})
}

func TestAddExperience_HugeDeposit_CapsAtMaxLevelWithOneNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)
	n.EXPECT().LevelUp("e", attribute.Strength, progression.MaxLevel).Times(1)

	s := newStore(t, n)
	gained := s.AddExperience("e", attribute.Strength, 1e30)
	assert.Equal(t, progression.MaxLevel-1, gained)
	assert.Equal(t, progression.MaxLevel, s.Level("e", attribute.Strength))
	assert.Equal(t, 0.0, s.Experience("e", attribute.Strength))
}

func TestAddExperience_LargeDeposit_JumpsToClosedFormLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)
	c := progression.NewCurve(progression.DefaultBaseExperience)
	want := c.LevelFor(1e18)
	n.EXPECT().LevelUp("e", attribute.Agility, want).Times(1)

	s := newStore(t, n)
	gained := s.AddExperience("e", attribute.Agility, 1e18)
	assert.Equal(t, want-1, gained)
	p := s.Progress("e", attribute.Agility)
	assert.Equal(t, want, p.Level)
	assert.GreaterOrEqual(t, p.Experience, 0.0)
	assert.Less(t, p.Experience, p.NextCost)
}

func TestAddExperience_NotificationLimitBoundary(t *testing.T) {
	c := progression.NewCurve(progression.DefaultBaseExperience)

	ctrl := gomock.NewController(t)
	n := progressionmock.NewMockNotifier(ctrl)
	n.EXPECT().LevelUp("each", attribute.Strength, gomock.Any()).Times(progression.MaxNotifiedLevels)
	s := newStore(t, n)
	gained := s.AddExperience("each", attribute.Strength, c.RequiredExperienceForLevel(progression.MaxNotifiedLevels+1))
	assert.Equal(t, progression.MaxNotifiedLevels, gained)

	n.EXPECT().LevelUp("jump", attribute.Strength, progression.MaxNotifiedLevels+2).Times(1)
	s.SetNotifier(n)
	gained = s.AddExperience("jump", attribute.Strength, c.RequiredExperienceForLevel(progression.MaxNotifiedLevels+2))
	assert.Equal(t, progression.MaxNotifiedLevels+1, gained)
	assert.Equal(t, 0.0, s.Experience("jump", attribute.Strength))
}

func TestProperty_LargeDepositsStayBracketed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := progression.NewStore(progression.NewCurve(1000), nil, zap.NewNop())
		amount := rapid.Float64Range(1e9, 1e15).Draw(t, "amount")
		s.AddExperience("e", attribute.Constitution, amount)
		p := s.Progress("e", attribute.Constitution)
		if p.Experience < 0 || p.Experience >= p.NextCost {
			t.Fatalf("experience %v outside [0, %v)", p.Experience, p.NextCost)
		}
		if math.Abs(p.Total-amount) > 1e-9*amount {
			t.Fatalf("total %v != deposited %v", p.Total, amount)
		}
	})
}
