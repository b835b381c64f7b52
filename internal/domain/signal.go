package domain

import "time"

// Conectores conocidos. Cualquier otro nombre se acepta como conector opaco.
const (
	ConnectorSpotify  = "spotify"
	ConnectorYouTube  = "youtube"
	ConnectorLinkedIn = "linkedin"
	ConnectorMeta     = "meta"
)

// SignalItem es un elemento normalizado de una lista de un conector (un track, un video, un puesto).
type SignalItem struct {
	Title      string     `json:"title"`
	Detail     string     `json:"detail,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
}

// ExternalSignal es el snapshot normalizado que entrega un conector.
// Sections mantiene listas ordenadas por relevancia (ej: "top_tracks", "experience").
type ExternalSignal struct {
	Connector string                  `json:"connector"`
	Sections  map[string][]SignalItem `json:"sections,omitempty"`
	Tags      []string                `json:"tags,omitempty"`
	LastSync  time.Time               `json:"last_sync"`
}

// Sample devuelve una copia con cada seccion truncada a maxItems y los tags a maxTags.
// La senal original no se modifica.
func (s ExternalSignal) Sample(maxItems, maxTags int) ExternalSignal {
	out := ExternalSignal{
		Connector: s.Connector,
		LastSync:  s.LastSync,
	}
	if len(s.Sections) > 0 {
		out.Sections = make(map[string][]SignalItem, len(s.Sections))
		for name, items := range s.Sections {
			n := len(items)
			if maxItems >= 0 && n > maxItems {
				n = maxItems
			}
			sampled := make([]SignalItem, n)
			for i := 0; i < n; i++ {
				item := items[i]
				item.Tags = append([]string(nil), item.Tags...)
				sampled[i] = item
			}
			out.Sections[name] = sampled
		}
	}
	tags := s.Tags
	if maxTags >= 0 && len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	out.Tags = append([]string(nil), tags...)
	return out
}
