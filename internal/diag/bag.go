package diag

import (
	"math"

	"fortio.org/safecast"
)

// Bag collects diagnostics in emission order.
type Bag struct {
	items []Diagnostic
	max   uint16 // 0 - без ограничения
}

// NewBag returns a bag holding at most max diagnostics. A max of zero or
// less means the bag is unbounded; values above 65535 are clamped.
func NewBag(max int) *Bag {
	if max <= 0 {
		return &Bag{}
	}
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = math.MaxUint16
	}
	return &Bag{
		items: make([]Diagnostic, 0, limit),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Messages returns the free-text message of every diagnostic, in order.
func (b *Bag) Messages() []string {
	out := make([]string, len(b.items))
	for i := range b.items {
		out[i] = b.items[i].Message
	}
	return out
}

// Merge объединяет диагностики из другого Bag, сохраняя порядок.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 {
		newTotal := len(b.items) + len(other.items)
		if newTotal > math.MaxUint16 {
			newTotal = math.MaxUint16
		}
		if newTotal > int(b.max) {
			b.max = uint16(newTotal)
		}
	}
	b.items = append(b.items, other.items...)
}
