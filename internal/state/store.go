package state

import (
	"context"
	"time"

	"github.com/mapban/veto-backend/internal/match"
)

type StoreMsg interface{ isStoreMsg() }

type ReadLight struct{ Reply chan Document }

type ReadAssets struct{ Reply chan []match.MapData }

type Write struct {
	Patch Patch
	Reply chan WriteResult
}

type WriteResult struct {
	MapUpdateTs int64
}

// Lookup resolves everything a trigger needs in one round trip so the step,
// selection and map are read from the same document revision.
type Lookup struct {
	StepID int
	Reply  chan LookupResult
}

type LookupResult struct {
	Step      match.Step
	StepFound bool
	MapName   string
	Map       match.MapData
	MapFound  bool
	DelayMs   int
	Design    DesignSettings
}

type ResetMatch struct{ Reply chan Document }

type ShutdownStore struct{}

func (ReadLight) isStoreMsg()     {}
func (ReadAssets) isStoreMsg()    {}
func (Write) isStoreMsg()         {}
func (Lookup) isStoreMsg()        {}
func (ResetMatch) isStoreMsg()    {}
func (ShutdownStore) isStoreMsg() {}

// Store owns the shared document and the heavy maps collection. Single
// goroutine, message inbox; no locks because nothing else touches the data.
type Store struct {
	inbox  chan StoreMsg
	doc    Document
	maps   []match.MapData
	now    func() int64
	ctx    context.Context
	cancel context.CancelFunc
}

func NewStore(parent context.Context, doc Document) *Store {
	ctx, cancel := context.WithCancel(parent)
	s := &Store{
		inbox:  make(chan StoreMsg, 64),
		doc:    doc,
		maps:   []match.MapData{},
		now:    func() int64 { return time.Now().UnixMilli() },
		ctx:    ctx,
		cancel: cancel,
	}
	go s.loop()
	return s
}

func (s *Store) Inbox() chan<- StoreMsg { return s.inbox }

func (s *Store) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.cancel()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case ReadLight:
				msg.Reply <- s.doc

			case ReadAssets:
				out := make([]match.MapData, len(s.maps))
				copy(out, s.maps)
				msg.Reply <- out

			case Write:
				s.doc = Merge(s.doc, msg.Patch)
				if msg.Patch.Maps != nil {
					s.maps = append([]match.MapData{}, *msg.Patch.Maps...)
					s.doc.MapUpdateTs = s.bumpVersion()
				}
				msg.Reply <- WriteResult{MapUpdateTs: s.doc.MapUpdateTs}

			case Lookup:
				msg.Reply <- s.lookup(msg.StepID)

			case ResetMatch:
				s.doc.Steps = match.DefaultSequence()
				s.doc.Selections = map[int]string{}
				s.doc.VisibleSteps = []int{}
				msg.Reply <- s.doc

			case ShutdownStore:
				s.cancel()
				return
			}
		}
	}
}

// bumpVersion returns a strictly increasing timestamp even when two map
// writes land within the same millisecond.
func (s *Store) bumpVersion() int64 {
	ts := s.now()
	if ts <= s.doc.MapUpdateTs {
		ts = s.doc.MapUpdateTs + 1
	}
	return ts
}

func (s *Store) lookup(stepID int) LookupResult {
	res := LookupResult{DelayMs: s.doc.Design.VmixDelay, Design: s.doc.Design}
	for _, step := range s.doc.Steps {
		if step.ID == stepID {
			res.Step = step
			res.StepFound = true
			break
		}
	}
	res.MapName = s.doc.Selections[stepID]
	if res.MapName != "" {
		for _, m := range s.maps {
			if m.Name == res.MapName {
				res.Map = m
				res.MapFound = true
				break
			}
		}
	}
	return res
}

// Synchronous wrappers for handlers and tests.

func (s *Store) Light() Document {
	reply := make(chan Document, 1)
	s.inbox <- ReadLight{Reply: reply}
	return <-reply
}

func (s *Store) Assets() []match.MapData {
	reply := make(chan []match.MapData, 1)
	s.inbox <- ReadAssets{Reply: reply}
	return <-reply
}

func (s *Store) Apply(p Patch) WriteResult {
	reply := make(chan WriteResult, 1)
	s.inbox <- Write{Patch: p, Reply: reply}
	return <-reply
}

func (s *Store) Resolve(stepID int) LookupResult {
	reply := make(chan LookupResult, 1)
	s.inbox <- Lookup{StepID: stepID, Reply: reply}
	return <-reply
}

func (s *Store) Reset() Document {
	reply := make(chan Document, 1)
	s.inbox <- ResetMatch{Reply: reply}
	return <-reply
}
