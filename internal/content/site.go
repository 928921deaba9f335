// Package content loads the localized static copy of the site: company details,
// services, partner manufacturers and the other blocks the pages frame around
// backend data.
package content

import "html/template"

// Site is the full static copy for one language.
type Site struct {
	Lang           string         `yaml:"-"`
	Company        Company        `yaml:"company"`
	Hero           Hero           `yaml:"hero"`
	Services       []Card         `yaml:"services"`
	Highlights     []Highlight    `yaml:"highlights"`
	Manufacturers  []Manufacturer `yaml:"manufacturers"`
	Advantages     []Card         `yaml:"advantages"`
	WhyUs          []string       `yaml:"why_us"`
	CatalogueHelp  []HelpCard     `yaml:"catalogue_help"`
	FooterServices []string       `yaml:"footer_services"`
}

// Company holds the contact details shown in the header, footer and form sidebars.
type Company struct {
	Name       string   `yaml:"name"`
	Tagline    string   `yaml:"tagline"`
	Logo       string   `yaml:"logo"`
	Emails     []string `yaml:"emails"`
	Phone      string   `yaml:"phone"`
	PhoneE164  string   `yaml:"phone_e164"`
	Workshop   Address  `yaml:"workshop"`
	HeadOffice Address  `yaml:"head_office"`
	Hours      []Hours  `yaml:"hours"`
	Founded    int      `yaml:"founded"`
}

// Address is a postal address split for display.
type Address struct {
	Street     string `yaml:"street"`
	PostalCode string `yaml:"postal_code"`
	City       string `yaml:"city"`
	Area       string `yaml:"area"`
	Country    string `yaml:"country"`
}

// Locality renders "5060 Auvelais (Sambreville)".
func (a Address) Locality() string {
	out := a.PostalCode
	if a.City != "" {
		if out != "" {
			out += " "
		}
		out += a.City
	}
	if a.Area != "" {
		out += " (" + a.Area + ")"
	}
	return out
}

// Hours is one line of the opening hours.
type Hours struct {
	Days   string `yaml:"days"`
	Short  string `yaml:"short"`
	Time   string `yaml:"time"`
	Closed bool   `yaml:"closed"`
	// Schema is the schema.org openingHours value, e.g. "Mo-Fr 08:00-18:00".
	Schema string `yaml:"schema"`
}

// Hero is the landing banner.
type Hero struct {
	Title    string        `yaml:"title"`
	Body     string        `yaml:"body"`
	BodyHTML template.HTML `yaml:"-"`
}

// Card is an icon, a title and a short text.
type Card struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Highlight is a home-page partner argument with tags and a headline figure.
type Highlight struct {
	Title string   `yaml:"title"`
	Body  string   `yaml:"body"`
	Tags  []string `yaml:"tags"`
	Badge string   `yaml:"badge"`
}

// Manufacturer is a partner brand.
type Manufacturer struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Speciality      string        `yaml:"speciality"`
	Description     string        `yaml:"description"`
	DescriptionHTML template.HTML `yaml:"-"`
	Logo            string        `yaml:"logo"`
	Badges          []string      `yaml:"badges"`
}

// HelpCard is a catalogue-page help block with an optional call to action.
type HelpCard struct {
	Icon     string `yaml:"icon"`
	Title    string `yaml:"title"`
	Body     string `yaml:"body"`
	Emphasis string `yaml:"emphasis"`
	CTALabel string `yaml:"cta_label"`
	CTAHref  string `yaml:"cta_href"`
}

// ManufacturerNames lists partner names in display order.
func (s *Site) ManufacturerNames() []string {
	out := make([]string, 0, len(s.Manufacturers))
	for _, m := range s.Manufacturers {
		out = append(out, m.Name)
	}
	return out
}
