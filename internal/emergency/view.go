package emergency

import (
	"strings"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/pkg/geo"
)

// ApproximateNotice is displayed for positions estimated from the IP address.
const ApproximateNotice = "* Location estimated via IP"

// Marker is a map pin.
type Marker struct {
	Title      string
	Coordinate geo.Coordinate
	Origin     bool
}

// Line connects the origin to a facility on the map.
type Line struct {
	From geo.Coordinate
	To   geo.Coordinate
}

// ListItem is one facility row.
type ListItem struct {
	Name        string
	AddressLine string
	CityLine    string
	Distance    string
	Phone       string
	PhoneLink   string
	Website     string
}

// View is everything needed to render a result set.
type View struct {
	Center  geo.Coordinate
	Label   string
	Notice  string
	Markers []Marker
	Lines   []Line
	Items   []ListItem
}

// BuildView shapes ranked facilities for display. It is pure: the same input
// always yields the same view.
func BuildView(origin geo.Coordinate, label string, approximate bool, facilities []entities.Facility) View {
	originTitle := "Your Location"
	if label != "" {
		originTitle = label
	}

	v := View{
		Center:  origin,
		Label:   label,
		Markers: make([]Marker, 0, len(facilities)+1),
		Lines:   make([]Line, 0, len(facilities)),
		Items:   make([]ListItem, 0, len(facilities)),
	}
	if approximate {
		v.Notice = ApproximateNotice
	}

	v.Markers = append(v.Markers, Marker{Title: originTitle, Coordinate: origin, Origin: true})
	for _, f := range facilities {
		v.Markers = append(v.Markers, Marker{Title: f.Name, Coordinate: f.Coordinate})
		v.Lines = append(v.Lines, Line{From: origin, To: f.Coordinate})
		v.Items = append(v.Items, listItem(f))
	}
	return v
}

func listItem(f entities.Facility) ListItem {
	item := ListItem{
		Name:        f.Name,
		AddressLine: joinNonEmpty(" ", f.HouseNumber, f.Street),
		CityLine:    joinNonEmpty(", ", f.City, f.Postcode),
		Distance:    geo.FormatKm(f.DistanceKm) + " km",
		Website:     f.Website,
	}
	if f.Phone != "" {
		item.Phone = f.Phone
		item.PhoneLink = "tel:" + f.Phone
	}
	return item
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
