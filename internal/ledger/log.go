package ledger

import (
	"context"
	"math/rand"
	"time"
)

type EntryType string

const (
	EntryInfo    EntryType = "info"
	EntrySuccess EntryType = "success"
	EntryError   EntryType = "error"
	EntryRequest EntryType = "request"
)

// Entry is one line of the operator console. Details carries the command
// parameters or the failure text, whatever the emitter had on hand.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EntryType `json:"type"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
}

type LogMsg interface{ isLogMsg() }

type Append struct{ Entry Entry }

type GetEntries struct{ Reply chan []Entry }

type Clear struct{}

type Subscribe struct {
	ClientID string
	Outbox   chan Entry
}

type Unsubscribe struct{ ClientID string }

type ShutdownLog struct{}

func (Append) isLogMsg()      {}
func (GetEntries) isLogMsg()  {}
func (Clear) isLogMsg()       {}
func (Subscribe) isLogMsg()   {}
func (Unsubscribe) isLogMsg() {}
func (ShutdownLog) isLogMsg() {}

// Log is the append-only operator log: insertion-ordered, deduplicated by
// entry id, unbounded until the operator clears it. Live subscribers get
// every accepted entry; slow ones are dropped rather than blocking the loop.
type Log struct {
	inbox   chan LogMsg
	entries []Entry
	seen    map[string]bool
	subs    map[string]chan Entry
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLog(parent context.Context) *Log {
	ctx, cancel := context.WithCancel(parent)
	l := &Log{
		inbox:  make(chan LogMsg, 64),
		seen:   make(map[string]bool),
		subs:   make(map[string]chan Entry),
		ctx:    ctx,
		cancel: cancel,
	}
	go l.loop()
	return l
}

func (l *Log) Inbox() chan<- LogMsg { return l.inbox }

func (l *Log) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Append:
				if l.seen[msg.Entry.ID] {
					break
				}
				l.seen[msg.Entry.ID] = true
				l.entries = append(l.entries, msg.Entry)
				l.broadcast(msg.Entry)

			case GetEntries:
				out := make([]Entry, len(l.entries))
				copy(out, l.entries)
				msg.Reply <- out

			case Clear:
				l.entries = nil
				l.seen = make(map[string]bool)

			case Subscribe:
				l.subs[msg.ClientID] = msg.Outbox

			case Unsubscribe:
				delete(l.subs, msg.ClientID)

			case ShutdownLog:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Log) shutdown() {
	for id, ch := range l.subs {
		close(ch)
		delete(l.subs, id)
	}
	l.cancel()
}

func (l *Log) broadcast(e Entry) {
	for id, ch := range l.subs {
		select {
		case ch <- e:
		default:
			close(ch)
			delete(l.subs, id)
		}
	}
}

// Emit builds and appends an entry. Fire-and-forget: the entry lands in the
// log in inbox order, which is emit order for a single caller.
func (l *Log) Emit(t EntryType, message string, details any) {
	l.inbox <- Append{Entry: Entry{
		ID:        NewEntryID(),
		Timestamp: time.Now(),
		Type:      t,
		Message:   message,
		Details:   details,
	}}
}

func (l *Log) Info(message string, details any)    { l.Emit(EntryInfo, message, details) }
func (l *Log) Success(message string, details any) { l.Emit(EntrySuccess, message, details) }
func (l *Log) Error(message string, details any)   { l.Emit(EntryError, message, details) }
func (l *Log) Request(message string, details any) { l.Emit(EntryRequest, message, details) }

// Snapshot is a synchronous read for HTTP handlers and tests.
func (l *Log) Snapshot() []Entry {
	reply := make(chan []Entry, 1)
	l.inbox <- GetEntries{Reply: reply}
	return <-reply
}

const idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func NewEntryID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return string(b)
}
