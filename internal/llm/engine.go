package llm

import "context"

// Role identifica el emisor de un mensaje en la conversacion con el motor.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message es un turno de la conversacion.
type Message struct {
	Role    Role
	Content string
}

// Request agrupa todo lo que necesita un motor para producir una respuesta estructurada.
// Schema es opcional; cuando esta presente el proveedor lo usa como contrato de salida.
type Request struct {
	System     string
	Messages   []Message
	SchemaName string
	Schema     *Schema
}

// ReasoningEngine es el motor externo de razonamiento. Devuelve el texto crudo;
// validarlo es responsabilidad del llamador.
type ReasoningEngine interface {
	Generate(ctx context.Context, req Request) (string, error)
}
