// Package publish pushes resolved knowledge units to a NATS knowledge-graph
// ingestion subject as semantic triples.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/vocabulary"
)

// DefaultSubject is the graph ingestion subject.
const DefaultSubject = "semindex.ingest.entity"

// DefaultSource tags published triples with their producer.
const DefaultSource = "semindex.resolve"

// Triple is one semantic assertion about a knowledge unit.
type Triple struct {
	Subject    string    `json:"subject"`
	Predicate  string    `json:"predicate"`
	Object     any       `json:"object"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// EntityMessage is the wire format for graph ingestion.
type EntityMessage struct {
	// MessageID uniquely identifies this publish event.
	MessageID string `json:"message_id"`

	// ID is the stable entity identifier, the class IRI.
	ID string `json:"id"`

	Triples   []Triple  `json:"triples"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conn is the slice of the NATS connection the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// Connect dials a NATS server with the client options the publisher expects.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("semindex"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// Publisher serializes knowledge units and publishes them. A nil connection
// turns every publish into a no-op, so callers need no conditional wiring.
type Publisher struct {
	nc      Conn
	subject string
	source  string
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSubject overrides the ingestion subject.
func WithSubject(subject string) Option {
	return func(p *Publisher) { p.subject = subject }
}

// WithSource overrides the triple source tag.
func WithSource(source string) Option {
	return func(p *Publisher) { p.source = source }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// New creates a publisher over an existing connection.
func New(nc Conn, opts ...Option) *Publisher {
	p := &Publisher{
		nc:      nc,
		subject: DefaultSubject,
		source:  DefaultSource,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishUnit publishes one knowledge unit as an entity message.
func (p *Publisher) PublishUnit(ctx context.Context, unit index.Unit) error {
	if p.nc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := EntityMessage{
		MessageID: uuid.NewString(),
		ID:        string(unit.IRI),
		Triples:   p.unitTriples(unit),
		UpdatedAt: p.now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal entity %s: %w", unit.IRI, err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", unit.IRI, err)
	}
	return nil
}

// PublishIndex publishes every unit in sorted IRI order.
func (p *Publisher) PublishIndex(ctx context.Context, idx *index.Index) error {
	if p.nc == nil {
		return nil
	}
	for _, id := range idx.Keys() {
		unit, _ := idx.Get(id)
		if err := p.PublishUnit(ctx, unit); err != nil {
			return err
		}
	}
	p.logger.Debug("published index", "subject", p.subject, "units", idx.Len())
	return nil
}

func (p *Publisher) unitTriples(unit index.Unit) []Triple {
	now := p.now()
	subject := string(unit.IRI)
	mk := func(predicate string, object any) Triple {
		return Triple{
			Subject:    subject,
			Predicate:  predicate,
			Object:     object,
			Source:     p.source,
			Timestamp:  now,
			Confidence: 1.0,
		}
	}

	triples := []Triple{mk(vocabulary.RDFType, vocabulary.OWLClass)}
	if unit.Label != "" {
		triples = append(triples, mk(vocabulary.RDFSLabel, unit.Label))
	}
	if unit.Definition != "" {
		triples = append(triples, mk(vocabulary.RDFSComment, unit.Definition))
	}
	for _, parent := range unit.Parents {
		triples = append(triples, mk(vocabulary.RDFSSubClassOf, string(parent)))
	}
	for _, pc := range unit.Properties {
		triples = append(triples, constraintTriple(mk, pc))
	}
	for _, pc := range unit.Inherited {
		triples = append(triples, constraintTriple(mk, pc))
	}
	return triples
}

// constraintTriple carries the full constraint as the object so consumers
// can rebuild cardinality and range facets without re-resolving.
func constraintTriple(mk func(string, any) Triple, pc constraint.PropertyConstraint) Triple {
	return mk(pc.PropertyIRI, pc)
}
