package game

// Clock - монотонные часы симуляции в секундах. Идут только вместе с тиками.
type Clock struct {
	now float64
}

// Advance сдвигает часы на dt. Отрицательные значения игнорируются.
func (c *Clock) Advance(dt float64) {
	if dt > 0 {
		c.now += dt
	}
}

func (c *Clock) Now() float64 { return c.now }

// Cooldown пропускает срабатывание, только если с прошлого прошло больше window.
// Первое срабатывание разрешено всегда.
type Cooldown struct {
	window float64
	last   float64
	armed  bool
}

func NewCooldown(window float64) *Cooldown {
	return &Cooldown{window: window}
}

// Ready сообщает, истекло ли окно к моменту now
func (c *Cooldown) Ready(now float64) bool {
	return !c.armed || now-c.last > c.window
}

// Stamp запоминает момент срабатывания
func (c *Cooldown) Stamp(now float64) {
	c.last = now
	c.armed = true
}
