// Package navigation carries the layout state of a rendered page: its title,
// the highlighted menu entry and the breadcrumb trail.
package navigation

// Crumb is one breadcrumb. The current crumb is rendered without a link.
type Crumb struct {
	Title   string
	URL     string
	Current bool
}

// Context describes the page being rendered.
type Context struct {
	PageTitle string
	Page      string // menu key, see the Page constants
	Crumbs    []Crumb
}

// NewContext returns the context of page with the given title.
func NewContext(title, page string) *Context {
	return &Context{PageTitle: title, Page: page}
}

// Crumb appends a breadcrumb and makes it the current one.
func (c *Context) Crumb(title, url string) *Context {
	for i := range c.Crumbs {
		c.Crumbs[i].Current = false
	}

	c.Crumbs = append(c.Crumbs, Crumb{Title: title, URL: url, Current: true})

	return c
}

// Highlights reports whether item is the menu entry of this page.
func (c *Context) Highlights(item MenuItem) bool {
	return c != nil && c.Page != "" && item.Page == c.Page
}
