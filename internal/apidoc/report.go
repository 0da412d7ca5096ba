package apidoc

import (
	"sort"
)

// Status classes for example response panels.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// StatusClass classifies an HTTP status code for display. Codes outside
// 2xx, 4xx and 5xx return "".
func StatusClass(code int) string {
	switch {
	case code >= 200 && code <= 299:
		return StatusSuccess
	case code >= 400 && code <= 499:
		return StatusWarning
	case code >= 500 && code <= 599:
		return StatusError
	default:
		return ""
	}
}

// GroupSection is a group with its endpoints in render order.
type GroupSection struct {
	Group     *Group
	Endpoints []*Endpoint
}

// Report is the render-ready view of a set of endpoints.
type Report struct {
	Sections []GroupSection
}

// NewReport groups endpoints by Group, orders groups by name and, within a
// group, orders endpoints by verb (GET, POST, PUT, PATCH, DELETE) then path.
// An endpoint with an unrecognized verb fails the whole report.
func NewReport(endpoints []*Endpoint) (*Report, error) {
	orders := make(map[*Endpoint]int, len(endpoints))
	for _, e := range endpoints {
		order, err := e.SortOrder()
		if err != nil {
			return nil, err
		}
		orders[e] = order
	}

	var sections []GroupSection
	index := make(map[string]int)
	for _, e := range endpoints {
		key := ""
		if e.Group != nil {
			key = e.Group.Key
		}
		i, ok := index[key]
		if !ok {
			group := e.Group
			if group == nil {
				group = NewGroup(UngroupedKey)
			}
			i = len(sections)
			index[key] = i
			sections = append(sections, GroupSection{Group: group})
		}
		sections[i].Endpoints = append(sections[i].Endpoints, e)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Group.Name < sections[j].Group.Name
	})
	for _, s := range sections {
		sort.SliceStable(s.Endpoints, func(i, j int) bool {
			a, b := s.Endpoints[i], s.Endpoints[j]
			if orders[a] != orders[b] {
				return orders[a] < orders[b]
			}
			return a.Path < b.Path
		})
	}

	return &Report{Sections: sections}, nil
}

// Endpoints returns every endpoint in render order.
func (r *Report) Endpoints() []*Endpoint {
	var out []*Endpoint
	for _, s := range r.Sections {
		out = append(out, s.Endpoints...)
	}
	return out
}

// Groups returns the groups in render order.
func (r *Report) Groups() []*Group {
	out := make([]*Group, 0, len(r.Sections))
	for _, s := range r.Sections {
		out = append(out, s.Group)
	}
	return out
}
