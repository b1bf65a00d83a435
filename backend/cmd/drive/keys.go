package main

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Терминал не сообщает об отпускании клавиш, только о нажатиях и автоповторе.
// Клавиша считается отпущенной, если повтор не пришел за holdTimeout.
const holdTimeout = 500 * time.Millisecond

type keyInput interface {
	SetKey(name string, down bool) bool
}

// keyTracker превращает поток нажатий терминала в состояния "нажата/отпущена"
type keyTracker struct {
	mu      sync.Mutex
	store   keyInput
	timeout time.Duration
	seen    map[string]time.Time
}

func newKeyTracker(store keyInput, timeout time.Duration) *keyTracker {
	if timeout <= 0 {
		timeout = holdTimeout
	}
	return &keyTracker{store: store, timeout: timeout, seen: make(map[string]time.Time)}
}

// Press отмечает нажатие или автоповтор. Возвращает false для несвязанной клавиши.
func (t *keyTracker) Press(name string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, held := t.seen[name]; !held {
		if !t.store.SetKey(name, true) {
			return false
		}
	}
	t.seen[name] = now
	return true
}

// Expire отпускает клавиши без повтора дольше timeout
func (t *keyTracker) Expire(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	released := 0
	for name, last := range t.seen {
		if now.Sub(last) > t.timeout {
			t.store.SetKey(name, false)
			delete(t.seen, name)
			released++
		}
	}
	return released
}

// Held возвращает число удерживаемых клавиш
func (t *keyTracker) Held() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// keyNames переводит событие tcell в имена клавиш хранилища ввода
func keyNames(ev *tcell.EventKey) []string {
	var names []string
	if ev.Modifiers()&tcell.ModShift != 0 {
		names = append(names, "shift")
	}

	switch ev.Key() {
	case tcell.KeyUp:
		return append(names, "arrowup")
	case tcell.KeyDown:
		return append(names, "arrowdown")
	case tcell.KeyLeft:
		return append(names, "arrowleft")
	case tcell.KeyRight:
		return append(names, "arrowright")
	case tcell.KeyEnter:
		return append(names, "enter")
	case tcell.KeyRune:
	default:
		return nil
	}

	r := ev.Rune()
	if unicode.IsUpper(r) {
		if len(names) == 0 {
			names = append(names, "shift")
		}
		r = unicode.ToLower(r)
	}
	switch r {
	case 'w', 'a', 's', 'd', 'r':
		return append(names, string(r))
	case ' ':
		return append(names, " ")
	}
	return nil
}

// isQuit - выход из клиента
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// keyReleaseSystem отпускает клавиши на каждом тике до шага сессии
type keyReleaseSystem struct {
	tracker *keyTracker
	now     func() time.Time
}

func (s *keyReleaseSystem) Update(time.Duration) error {
	s.tracker.Expire(s.now())
	return nil
}

func (s *keyReleaseSystem) GetName() string  { return "KeyReleaseSystem" }
func (s *keyReleaseSystem) GetPriority() int { return 5 }
