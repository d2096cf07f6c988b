package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Overrides is the shape of an optional YAML fixture file. Entries replace
// seeded entities with the same id and add new ones; maps never shrink.
type Overrides struct {
	Organizations []Organization    `yaml:"organizations"`
	Users         []User            `yaml:"users"`
	Campaigns     []Campaign        `yaml:"campaigns"`
	Strategies    []Strategy        `yaml:"strategies"`
	Segments      []AudienceSegment `yaml:"segments"`
	Creatives     []Creative        `yaml:"creatives"`
	SupplySources []SupplySource    `yaml:"supplySources"`
}

// LoadOverrides reads a YAML overrides file and applies it to the store.
func (s *Store) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture overrides: %w", err)
	}
	var ov Overrides
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return fmt.Errorf("parse fixture overrides: %w", err)
	}
	s.apply(&ov)
	return nil
}

func (s *Store) apply(ov *Overrides) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range ov.Organizations {
		o := ov.Organizations[i]
		s.organizations[o.ID] = &o
	}
	for i := range ov.Users {
		u := ov.Users[i]
		s.users[u.ID] = &u
	}
	for i := range ov.Campaigns {
		c := ov.Campaigns[i]
		s.campaigns[c.ID] = &c
		if c.ID > s.nextCampaignID {
			s.nextCampaignID = c.ID
		}
	}
	for i := range ov.Strategies {
		st := ov.Strategies[i]
		s.strategies[st.ID] = &st
		if st.ID > s.nextStrategyID {
			s.nextStrategyID = st.ID
		}
	}
	for i := range ov.Segments {
		seg := ov.Segments[i]
		s.segments[seg.ID] = &seg
		if seg.ID > s.nextSegmentID {
			s.nextSegmentID = seg.ID
		}
	}
	for i := range ov.Creatives {
		cr := ov.Creatives[i]
		s.creatives[cr.ID] = &cr
		if cr.ID > s.nextCreativeID {
			s.nextCreativeID = cr.ID
		}
	}
	for i := range ov.SupplySources {
		ss := ov.SupplySources[i]
		s.supplySources[ss.ID] = &ss
	}
}

// Watch re-applies the overrides file whenever it changes, until ctx is
// done. Errors on reload are logged, not fatal; the previous data stays.
func (s *Store) Watch(ctx context.Context, path string, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fixture watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("fixture watcher add %q: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := s.LoadOverrides(path); err != nil {
					log.Warn("fixtures.reload.fail", slog.String("path", path), slog.String("err", err.Error()))
					continue
				}
				log.Info("fixtures.reload.ok", slog.String("path", path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("fixtures.watch.err", slog.String("err", err.Error()))
			}
		}
	}()
	return nil
}
