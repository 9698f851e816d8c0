package entity_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

func TestRegistry_Add_AssignsID(t *testing.T) {
	r := entity.NewRegistry()
	p, err := r.Add(&entity.Profile{Name: "Tynan"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, ok := r.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Tynan", got.Name)
}

func TestRegistry_Add_DuplicateID_Error(t *testing.T) {
	r := entity.NewRegistry()
	_, err := r.Add(&entity.Profile{ID: "a"})
	require.NoError(t, err)
	_, err = r.Add(&entity.Profile{ID: "a"})
	assert.Error(t, err)
}

func TestRegistry_Add_Nil_Error(t *testing.T) {
	_, err := entity.NewRegistry().Add(nil)
	assert.Error(t, err)
}

func TestRegistry_Remove(t *testing.T) {
	r := entity.NewRegistry()
	_, err := r.Add(&entity.Profile{ID: "a", FactionID: "pirates"})
	require.NoError(t, err)
	require.NoError(t, r.Remove("a"))
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Empty(t, r.InFaction("pirates"))
	assert.Error(t, r.Remove("a"))
}

func TestRegistry_Transfer_UpdatesFactionIndex(t *testing.T) {
	r := entity.NewRegistry()
	_, err := r.Add(&entity.Profile{ID: "a", FactionID: "pirates", Relation: entity.RelationHostile})
	require.NoError(t, err)

	require.NoError(t, r.Transfer("a", "colony", entity.RelationPlayer))
	assert.Empty(t, r.InFaction("pirates"))
	require.Len(t, r.InFaction("colony"), 1)
	assert.Len(t, r.WithRelation(entity.RelationPlayer), 1)
	assert.Error(t, r.Transfer("missing", "colony", entity.RelationPlayer))
}

func TestRegistry_ConcurrentAdds(t *testing.T) {
	r := entity.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Add(&entity.Profile{ID: fmt.Sprintf("e%d", i), FactionID: "f"})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())
	assert.Len(t, r.InFaction("f"), 50)
}

func TestProfile_Helpers(t *testing.T) {
	p := &entity.Profile{Kind: entity.KindAnimal}
	assert.True(t, p.IsAnimal())
	assert.Equal(t, 0, p.SkillLevel(entity.SkillShooting))
	assert.Equal(t, 1.0, p.EffectiveBodySize())

	p.Skills = map[entity.Skill]int{entity.SkillShooting: 9}
	p.BodySize = 2.4
	assert.Equal(t, 9, p.SkillLevel(entity.SkillShooting))
	assert.Equal(t, 2.4, p.EffectiveBodySize())
}

func TestParseKindAndRelation(t *testing.T) {
	k, err := entity.ParseKind("Animal")
	require.NoError(t, err)
	assert.Equal(t, entity.KindAnimal, k)
	_, err = entity.ParseKind("robot")
	assert.Error(t, err)

	rel, err := entity.ParseRelation("enemy")
	require.NoError(t, err)
	assert.Equal(t, entity.RelationHostile, rel)
	rel, err = entity.ParseRelation("")
	require.NoError(t, err)
	assert.Equal(t, entity.RelationNeutral, rel)
	_, err = entity.ParseRelation("frenemy")
	assert.Error(t, err)
}

func TestProperty_AllIsSortedAndComplete(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,6}`), 0, 30, rapid.ID[string]).Draw(t, "ids")
		r := entity.NewRegistry()
		for _, id := range ids {
			if _, err := r.Add(&entity.Profile{ID: id}); err != nil {
				t.Fatalf("add %q: %v", id, err)
			}
		}
		all := r.All()
		if len(all) != len(ids) {
			t.Fatalf("got %d profiles, want %d", len(all), len(ids))
		}
		for i := 1; i < len(all); i++ {
			if all[i-1].ID >= all[i].ID {
				t.Fatalf("not sorted at %d: %q >= %q", i, all[i-1].ID, all[i].ID)
			}
		}
	})
}
