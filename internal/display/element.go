package display

// Item is one entry of a list target
type Item struct {
	Class   string `json:"class"`
	Icon    string `json:"icon,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Series is one dataset of a chart drawing
type Series struct {
	Name   string    `json:"name"`
	Colors []string  `json:"colors"` // one color for the whole series, or one per value
	Values []float64 `json:"values"`
}

// Drawing is what a chart widget paints onto a canvas target. It is not
// modified after being painted.
type Drawing struct {
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
	SVG    []byte   `json:"-"`
}

// State is a copy of a target's content
type State struct {
	ID           string   `json:"id"`
	Text         string   `json:"text,omitempty"`
	WidthPercent *int     `json:"width_percent,omitempty"`
	Background   string   `json:"background,omitempty"`
	Color        string   `json:"color,omitempty"`
	Items        []Item   `json:"items,omitempty"`
	Drawing      *Drawing `json:"drawing,omitempty"`
}

// Element is a named display target
type Element struct {
	id   string
	page *Page

	text         string
	widthPercent *int
	background   string
	color        string
	items        []Item
	drawing      *Drawing
}

// ID returns the target id
func (e *Element) ID() string {
	return e.id
}

func (e *Element) mutate(fn func()) {
	e.page.mu.Lock()
	fn()
	e.page.version++
	e.page.mu.Unlock()
}

// SetText replaces the text content
func (e *Element) SetText(text string) {
	e.mutate(func() { e.text = text })
}

// Text returns the text content
func (e *Element) Text() string {
	e.page.mu.RLock()
	defer e.page.mu.RUnlock()
	return e.text
}

// SetWidthPercent sets the rendered width as a percentage. Values above 100
// are kept; views decide how to clamp them.
func (e *Element) SetWidthPercent(pct int) {
	e.mutate(func() { e.widthPercent = &pct })
}

// SetStyle sets background and foreground colors
func (e *Element) SetStyle(background, color string) {
	e.mutate(func() {
		e.background = background
		e.color = color
	})
}

// ReplaceItems clears the list and then appends items
func (e *Element) ReplaceItems(items []Item) {
	copied := append([]Item(nil), items...)
	e.mutate(func() { e.items = copied })
}

// Paint puts a chart drawing on the target
func (e *Element) Paint(d *Drawing) {
	e.mutate(func() { e.drawing = d })
}

// Erase removes the chart drawing
func (e *Element) Erase() {
	e.mutate(func() { e.drawing = nil })
}

func (e *Element) state() State {
	st := State{
		ID:         e.id,
		Text:       e.text,
		Background: e.background,
		Color:      e.color,
		Drawing:    e.drawing,
	}
	if e.widthPercent != nil {
		w := *e.widthPercent
		st.WidthPercent = &w
	}
	if e.items != nil {
		st.Items = append([]Item(nil), e.items...)
	}
	return st
}
