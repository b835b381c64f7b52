package domain

import "time"

// Demographics es el subconjunto del usuario que se le muestra al motor.
type Demographics struct {
	FirstName string `json:"first_name,omitempty"`
	Age       *int   `json:"age,omitempty"`
	Location  string `json:"location,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// EvidenceBundle es la evidencia efimera de una corrida de sintesis.
type EvidenceBundle struct {
	UserID       string                    `json:"user_id"`
	Demographics Demographics              `json:"demographics"`
	Responses    []ResponseRecord          `json:"responses"`
	Signals      map[string]ExternalSignal `json:"signals"`
	AssembledAt  time.Time                 `json:"assembled_at"`
}
