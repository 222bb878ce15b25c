package resources

import (
	"errors"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/fetch"
	"github.com/goliatone/go-cms-admin/internal/render"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

var ErrUnknownResource = errors.New("resources: unknown resource")

const (
	News                  = "news"
	Leaders               = "leaders"
	Sliders               = "sliders"
	SustainabilityReports = "sustainability_reports"
	Contacts              = "contacts"
)

// Page is the static definition of one built-in list page.
type Page struct {
	Resource string
	Label    string
	Envelope fetch.Envelope
	// EnvelopeKey names the array for keyed envelopes.
	EnvelopeKey string
	Columns     []render.Column[Record]
	// Required lists the fields the fixture backend rejects when blank.
	Required []string
	Seeds    []Record
}

// Unwrap returns the envelope decoder of the page.
func (p Page) Unwrap() (fetch.Unwrap[Record], error) {
	return fetch.ForEnvelope[Record](p.Envelope, p.EnvelopeKey)
}

// Options carries the runtime collaborators of the column renderers.
type Options struct {
	Media            interfaces.MediaResolver
	PlaceholderImage string
	Links            render.EditLinker
	TruncateLength   int
	DateLayout       string
	Placeholder      string
}

// Names lists the built-in resources in display order.
func Names() []string {
	return []string{News, Leaders, Sliders, SustainabilityReports, Contacts}
}

// Lookup returns the page definition of resource.
func Lookup(resource string, opts Options) (Page, error) {
	resource = strings.TrimSpace(resource)
	for _, page := range Pages(opts) {
		if page.Resource == resource {
			return page, nil
		}
	}
	return Page{}, ErrUnknownResource
}

// Pages returns every built-in page definition.
func Pages(opts Options) []Page {
	c := columns{opts: opts}
	return []Page{
		{
			Resource: News,
			Label:    "News",
			Envelope: fetch.EnvelopeData,
			Columns: []render.Column[Record]{
				c.text("id", "ID"),
				c.text("title", "Title"),
				c.truncate("description", "Description", "No Description"),
				c.media("image", "Image"),
				c.date("published_at", "Published"),
				c.actions(),
			},
			Required: []string{"title", "description"},
			Seeds:    newsSeeds(),
		},
		{
			Resource: Leaders,
			Label:    "Leader",
			Envelope: fetch.EnvelopeKeyed,
			// leaders are served as {"leaders": [...]}
			EnvelopeKey: Leaders,
			Columns: []render.Column[Record]{
				c.text("id", "ID"),
				c.text("name", "Name"),
				c.text("position", "Position"),
				c.text("level.name", "Level"),
				c.truncate("bio", "Bio", "No Bio"),
				c.media("photo", "Photo"),
				c.actions(),
			},
			Required: []string{"name", "position"},
			Seeds:    leaderSeeds(),
		},
		{
			Resource: Sliders,
			Label:    "Slider",
			Envelope: fetch.EnvelopeBare,
			Columns: []render.Column[Record]{
				c.text("id", "ID"),
				c.text("heading", "Heading"),
				c.truncate("caption", "Caption", ""),
				c.media("image", "Image"),
				c.link("link", "Link"),
				c.actions(),
			},
			Required: []string{"heading"},
			Seeds:    sliderSeeds(),
		},
		{
			Resource: SustainabilityReports,
			Label:    "Sustainability Report",
			Envelope: fetch.EnvelopeData,
			Columns: []render.Column[Record]{
				c.text("id", "ID"),
				c.text("title", "Title"),
				c.text("category.name", "Category"),
				c.link("document", "Document"),
				c.date("report_date", "Report Date"),
				c.actions(),
			},
			Required: []string{"title", "report_date"},
			Seeds:    reportSeeds(),
		},
		{
			Resource: Contacts,
			Label:    "Contact",
			Envelope: fetch.EnvelopeData,
			Columns: []render.Column[Record]{
				c.text("id", "ID"),
				c.text("office", "Office"),
				c.text("email", "Email"),
				c.text("phone", "Phone"),
				c.truncate("address", "Address", ""),
				c.link("map_url", "Map"),
				c.actions(),
			},
			Required: []string{"office", "email"},
			Seeds:    contactSeeds(),
		},
	}
}

// Has reports whether resource is a built-in page.
func Has(resource string) bool {
	return slices.Contains(Names(), strings.TrimSpace(resource))
}

type columns struct {
	opts Options
}

func accessor(path string) func(Record) any {
	return func(r Record) any { return Field(r, path) }
}

func (c columns) text(key, header string) render.Column[Record] {
	return render.Column[Record]{Key: key, Header: header, Accessor: accessor(key), Renderer: render.Text{Placeholder: c.opts.Placeholder}}
}

func (c columns) truncate(key, header, placeholder string) render.Column[Record] {
	if placeholder == "" {
		placeholder = c.opts.Placeholder
	}
	return render.Column[Record]{
		Key:      key,
		Header:   header,
		Accessor: accessor(key),
		Renderer: render.Truncate{Limit: c.opts.TruncateLength, Placeholder: placeholder},
	}
}

func (c columns) date(key, header string) render.Column[Record] {
	return render.Column[Record]{
		Key:      key,
		Header:   header,
		Accessor: accessor(key),
		Renderer: render.Date{Layout: c.opts.DateLayout, Placeholder: c.opts.Placeholder},
	}
}

func (c columns) media(key, header string) render.Column[Record] {
	return render.Column[Record]{
		Key:      key,
		Header:   header,
		Accessor: accessor(key),
		Renderer: render.Media{Resolver: c.opts.Media, PlaceholderImage: c.opts.PlaceholderImage},
	}
}

func (c columns) link(key, header string) render.Column[Record] {
	return render.Column[Record]{Key: key, Header: header, Accessor: accessor(key), Renderer: render.Link{}}
}

func (c columns) actions() render.Column[Record] {
	return render.Column[Record]{Key: "actions", Header: "Actions", Renderer: render.Actions{Links: c.opts.Links}}
}
