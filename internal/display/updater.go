package display

// Updater writes values into page targets by id. Every method reports whether
// the target exists; a missing target is a silent no-op so partial layouts work.
type Updater struct {
	page *Page
}

// NewUpdater creates an updater for page
func NewUpdater(page *Page) *Updater {
	return &Updater{page: page}
}

// Page returns the page being updated
func (u *Updater) Page() *Page {
	return u.page
}

// SetText sets the text content of a target
func (u *Updater) SetText(id, value string) bool {
	el, ok := u.page.Lookup(id)
	if !ok {
		return false
	}
	el.SetText(value)
	return true
}

// SetWidthPercent sets a target's width as a percentage
func (u *Updater) SetWidthPercent(id string, pct int) bool {
	el, ok := u.page.Lookup(id)
	if !ok {
		return false
	}
	el.SetWidthPercent(pct)
	return true
}

// SetStyle sets a target's background and foreground colors
func (u *Updater) SetStyle(id, background, color string) bool {
	el, ok := u.page.Lookup(id)
	if !ok {
		return false
	}
	el.SetStyle(background, color)
	return true
}

// ReplaceItems clears a list target and fills it with items
func (u *Updater) ReplaceItems(id string, items []Item) bool {
	el, ok := u.page.Lookup(id)
	if !ok {
		return false
	}
	el.ReplaceItems(items)
	return true
}
