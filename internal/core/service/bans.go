package service

import (
	"context"

	"github.com/openmarket/catalog-api/internal/core/engine"
	"github.com/openmarket/catalog-api/internal/core/hooks"
	"github.com/openmarket/catalog-api/internal/core/serializer"

	"github.com/openmarket/catalog-api/internal/core/domain"
)

// AddBan appends a ban to the parent resource. Bans are issued by category
// administrators, not by the resource owner, so authorization is by
// accreditation instead of the capability token. Uniqueness of the active
// ban per administrator is checked by the hook layer against the snapshot
// being written.
func (s *Objects[T, P]) AddBan(ctx context.Context, rc domain.RequestContext, id string, ban domain.Ban) (map[string]any, error) {
	if s.cfg.Bans == nil {
		return nil, domain.NotFound("%s does not hold bans", s.cfg.Kind)
	}
	if rc.Caller.Anonymous {
		return nil, domain.Unauthorized("authentication required")
	}

	var (
		oldMap map[string]any
		banID  string
	)
	committed, err := engine.Update(ctx, s.cfg.Kind, s.cfg.Store, id, func(obj P) error {
		if s.cfg.BanAccredit != nil {
			if err := s.cfg.BanAccredit(ctx, rc, obj); err != nil {
				return err
			}
		}
		before, err := clone((*T)(obj))
		if err != nil {
			return err
		}
		if oldMap, err = serializer.AsMap(before); err != nil {
			return err
		}

		b := ban // fresh copy per attempt; PrepareBan assigns the id
		list := s.cfg.Bans(obj)
		if err := hooks.PrepareBan(rc, *list, &b); err != nil {
			return err
		}
		banID = b.ID
		*list = append(*list, b)

		if err := s.cfg.Hooks.OnPatch(ctx, rc, before, (*T)(obj)); err != nil {
			return err
		}
		s.cfg.Hooks.Always((*T)(obj))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, committed.ObjectID())

	newMap, err := serializer.AsMap(committed)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, rc, s.cfg.Kind, committed.ObjectID(), oldMap, newMap)
	s.log.Info().Str("kind", string(s.cfg.Kind)).Str("id", id).
		Str("ban", banID).Str("administrator", ban.Administrator.Identifier.ID).
		Msg("ban issued")

	return banFromMap(newMap, banID)
}

// ListBans returns the parent's bans as stored; the derived active state is
// the client's question to ask against dueDate.
func (s *Objects[T, P]) ListBans(ctx context.Context, rc domain.RequestContext, id string) ([]map[string]any, error) {
	if s.cfg.Bans == nil {
		return nil, domain.NotFound("%s does not hold bans", s.cfg.Kind)
	}
	obj, err := s.cfg.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := serializer.AsMap(obj)
	if err != nil {
		return nil, err
	}
	bans, _ := m["bans"].([]any)
	out := make([]map[string]any, 0, len(bans))
	for _, b := range bans {
		if bm, ok := b.(map[string]any); ok {
			out = append(out, bm)
		}
	}
	return out, nil
}

func banFromMap(m map[string]any, banID string) (map[string]any, error) {
	bans, _ := m["bans"].([]any)
	for _, b := range bans {
		if bm, ok := b.(map[string]any); ok && bm["id"] == banID {
			return bm, nil
		}
	}
	return nil, domain.NotFound("ban %s not found", banID)
}
