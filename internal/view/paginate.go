package view

import "errors"

const DefaultPageSize = 10

var ErrPageSizeInvalid = errors.New("view: page size must be positive")

// Page is one window over a filtered subset.
type Page[T any] struct {
	Items     []T
	PageIndex int
	PageSize  int
	PageCount int
	Total     int
	CanPrev   bool
	CanNext   bool
}

// PageCount returns max(1, ceil(total/size)).
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp bounds index to [0, PageCount(total, size)-1].
func Clamp(index, total, size int) int {
	if index < 0 {
		return 0
	}
	if last := PageCount(total, size) - 1; index > last {
		return last
	}
	return index
}

// Paginate slices subset for the clamped pageIndex.
func Paginate[T any](subset []T, pageIndex, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(subset)
	count := PageCount(total, pageSize)
	index := Clamp(pageIndex, total, pageSize)

	start := min(index*pageSize, total)
	end := min(start+pageSize, total)
	items := make([]T, end-start)
	copy(items, subset[start:end])

	return Page[T]{
		Items:     items,
		PageIndex: index,
		PageSize:  pageSize,
		PageCount: count,
		Total:     total,
		CanPrev:   index > 0,
		CanNext:   index < count-1,
	}
}

// Pager holds pagination state for one table. The zero value is not usable;
// use NewPager.
type Pager struct {
	index int
	size  int
}

// NewPager starts at page 0 with size, or DefaultPageSize when size <= 0.
func NewPager(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{size: size}
}

// Index returns the stored page index.
func (p *Pager) Index() int { return p.index }

// Size returns the page size.
func (p *Pager) Size() int { return p.size }

// SetPageSize changes the page size and clamps the index for total items.
func (p *Pager) SetPageSize(size, total int) error {
	if size <= 0 {
		return ErrPageSizeInvalid
	}
	p.size = size
	p.index = Clamp(p.index, total, size)
	return nil
}

// Next advances one page; no-op on the last page.
func (p *Pager) Next(total int) bool {
	if p.index >= PageCount(total, p.size)-1 {
		p.index = Clamp(p.index, total, p.size)
		return false
	}
	p.index++
	return true
}

// Prev moves back one page; no-op on the first page.
func (p *Pager) Prev(total int) bool {
	p.index = Clamp(p.index, total, p.size)
	if p.index == 0 {
		return false
	}
	p.index--
	return true
}

// Goto jumps to index, clamped.
func (p *Pager) Goto(index, total int) {
	p.index = Clamp(index, total, p.size)
}

// Clamp re-bounds the stored index after the subset changed.
func (p *Pager) Clamp(total int) {
	p.index = Clamp(p.index, total, p.size)
}
