package simhost

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

type deferred struct {
	due int64
	fn  func()
}

// after schedules fn to run delay ticks from now. h.mu must be held.
func (h *Host) after(delay int64, fn func()) {
	if delay < 1 {
		delay = 1
	}
	h.queue = append(h.queue, deferred{due: h.tick + delay, fn: fn})
}

// Pending returns the number of scheduled callbacks.
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// Advance moves the clock forward ticks steps, running due callbacks in
// scheduling order and re-polling modifiers every repoll_ticks.
func (h *Host) Advance(ticks int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := int64(0); i < ticks; i++ {
		h.tick++
		h.runDue()
		if every := h.cfg.SimHost.RepollTicks; every > 0 && h.tick%every == 0 {
			h.repoll()
		}
	}
}

// Step advances by the configured ticks_per_step. It is the tick service
// callback.
func (h *Host) Step() {
	h.Advance(h.Config().SimHost.TicksPerStep)
}

func (h *Host) runDue() {
	var due []deferred
	rest := h.queue[:0]
	for _, d := range h.queue {
		if d.due <= h.tick {
			due = append(due, d)
		} else {
			rest = append(rest, d)
		}
	}
	h.queue = rest
	for _, d := range due {
		d.fn()
	}
}

// repoll refreshes the cached modifiers of every statistic the entity's
// engine maps.
func (h *Host) repoll() {
	polled := make(map[string]map[string]float64)
	for _, p := range h.registry.All() {
		engine := h.modifiers.Engine(p.ID)
		if engine == nil {
			continue
		}
		stats := make(map[string]float64)
		for _, stat := range engine.Table().Statistics() {
			if v := engine.Modifier(p.ID, stat); v != 0 {
				stats[stat] = v
			}
		}
		polled[p.ID] = stats
	}
	h.polled = polled
	h.logger.Debug("modifiers re-polled", zap.Int64("tick", h.tick), zap.Int("entities", len(polled)))
}

// Transfer moves id into factionID, taking the faction's relation. Joining
// the player group drops the cached reference power.
func (h *Host) Transfer(id, factionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.factions[factionID]
	if !ok {
		return ErrUnknownFaction
	}
	if err := h.registry.Transfer(id, factionID, f.Relation); err != nil {
		return err
	}
	if f.Relation == entity.RelationPlayer {
		h.balancer.InvalidateCache()
	}
	return nil
}
