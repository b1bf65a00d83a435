package audio

// Handle - управляемый звуковой канал
type Handle interface {
	Play()
	Stop()
	SetVolume(v float64)
	IsPlaying() bool
}

// Set связывает каналы с их реализациями. Отсутствующий канал молча игнорируется.
type Set struct {
	handles [channelCount]Handle
}

// NewSet создает пустой набор
func NewSet() *Set {
	return &Set{}
}

// Bind назначает реализацию каналу
func (s *Set) Bind(c Channel, h Handle) {
	if s == nil || !c.Valid() {
		return
	}
	s.handles[c] = h
}

// Get возвращает реализацию канала, если он загружен
func (s *Set) Get(c Channel) (Handle, bool) {
	if s == nil || !c.Valid() || s.handles[c] == nil {
		return nil, false
	}
	return s.handles[c], true
}

// Has сообщает, что канал загружен
func (s *Set) Has(c Channel) bool {
	_, ok := s.Get(c)
	return ok
}

// Idle - канал загружен и сейчас не звучит
func (s *Set) Idle(c Channel) bool {
	h, ok := s.Get(c)
	return ok && !h.IsPlaying()
}

// IsPlaying - канал загружен и звучит
func (s *Set) IsPlaying(c Channel) bool {
	h, ok := s.Get(c)
	return ok && h.IsPlaying()
}

func (s *Set) Play(c Channel) {
	if h, ok := s.Get(c); ok {
		h.Play()
	}
}

func (s *Set) Stop(c Channel) {
	if h, ok := s.Get(c); ok {
		h.Stop()
	}
}

// Restart останавливает звучащий канал и запускает его заново
func (s *Set) Restart(c Channel) {
	h, ok := s.Get(c)
	if !ok {
		return
	}
	if h.IsPlaying() {
		h.Stop()
	}
	h.Play()
}

func (s *Set) SetVolume(c Channel, v float64) {
	if h, ok := s.Get(c); ok {
		h.SetVolume(v)
	}
}
