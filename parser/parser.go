// Package parser reads the Turtle subset used for ontology definitions and
// produces the class-hierarchy graph and ontology context the resolver
// consumes.
//
// Supported syntax: @prefix directives, absolute and prefixed IRIs, the "a"
// keyword, rdfs:label/comment, rdfs:subClassOf with bracketed
// owl:Restriction blocks, owl:disjointWith, object/datatype/functional
// property declarations with rdfs:domain, rdfs:range, and
// rdfs:subPropertyOf, string and integer literals, and collections for
// owl:oneOf. Blank node syntax outside restriction position is not
// supported.
package parser

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/graph"
	"github.com/c360studio/semindex/ontology"
	"github.com/c360studio/semindex/vocabulary"
)

// Parser turns Turtle documents into an ontology. Safe for reuse; each
// Parse call is independent.
type Parser struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// object is one parsed object position: a resource, a literal, a bracketed
// property set, or a collection.
type object struct {
	iri       string
	literal   string
	isLiteral bool
	nested    *propertySet
	list      []object
	line      int
}

// propertySet maps predicate IRIs to their objects for one subject or one
// bracketed block.
type propertySet struct {
	line  int
	preds map[string][]object
}

func newPropertySet(line int) *propertySet {
	return &propertySet{line: line, preds: make(map[string][]object)}
}

func (ps *propertySet) first(pred string) (object, bool) {
	objs := ps.preds[pred]
	if len(objs) == 0 {
		return object{}, false
	}
	return objs[0], true
}

func (ps *propertySet) firstLiteral(pred string) string {
	for _, o := range ps.preds[pred] {
		if o.isLiteral {
			return o.literal
		}
	}
	return ""
}

func (ps *propertySet) firstIRI(pred string) string {
	for _, o := range ps.preds[pred] {
		if o.iri != "" {
			return o.iri
		}
	}
	return ""
}

func (ps *propertySet) hasType(typeIRI string) bool {
	for _, o := range ps.preds[vocabulary.RDFType] {
		if o.iri == typeIRI {
			return true
		}
	}
	return false
}

// document is the raw parse result before ontology assembly.
type document struct {
	subjects map[string]*propertySet
	order    []string
}

// Parse reads a Turtle document and assembles the class-hierarchy graph and
// ontology context.
func (p *Parser) Parse(input string) (*graph.Directed, *ontology.Context, error) {
	doc, err := p.parseDocument(input)
	if err != nil {
		return nil, nil, err
	}
	return p.assemble(doc)
}

// ParseFiles concatenates the given Turtle files and parses them as one
// document. Prefix declarations carry across file boundaries.
func (p *Parser) ParseFiles(paths []string) (*graph.Directed, *ontology.Context, error) {
	var sb strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read ontology file: %w", err)
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	g, octx, err := p.Parse(sb.String())
	if err != nil {
		return nil, nil, fmt.Errorf("parse ontology files %v: %w", paths, err)
	}
	return g, octx, nil
}

func (p *Parser) parseDocument(input string) (*document, error) {
	lex := newLexer(input)
	prefixes := vocabulary.StandardPrefixes()
	doc := &document{subjects: make(map[string]*propertySet)}

	for {
		t, err := lex.next()
		if err != nil {
			return nil, err
		}
		switch t.kind {
		case tokEOF:
			return doc, nil
		case tokPrefix:
			if err := parsePrefix(lex, prefixes); err != nil {
				return nil, err
			}
		case tokIRI, tokPName:
			subj, err := resolveToken(t, prefixes)
			if err != nil {
				return nil, err
			}
			ps := doc.subjects[subj]
			if ps == nil {
				ps = newPropertySet(t.line)
				doc.subjects[subj] = ps
				doc.order = append(doc.order, subj)
			}
			if err := parsePredicateObjects(lex, prefixes, ps, tokDot); err != nil {
				return nil, err
			}
		default:
			return nil, &ParseError{Line: t.line, Msg: "expected subject or @prefix directive"}
		}
	}
}

func parsePrefix(lex *lexer, prefixes map[string]string) error {
	name, err := lex.next()
	if err != nil {
		return err
	}
	if name.kind != tokPName || !strings.HasSuffix(name.value, ":") {
		return &ParseError{Line: name.line, Msg: "expected prefix name ending in ':'"}
	}
	iri, err := lex.next()
	if err != nil {
		return err
	}
	if iri.kind != tokIRI {
		return &ParseError{Line: iri.line, Msg: "expected namespace IRI in @prefix"}
	}
	dot, err := lex.next()
	if err != nil {
		return err
	}
	if dot.kind != tokDot {
		return &ParseError{Line: dot.line, Msg: "expected '.' after @prefix directive"}
	}
	prefixes[strings.TrimSuffix(name.value, ":")] = iri.value
	return nil
}

// parsePredicateObjects reads "pred obj, obj ; pred obj ..." up to the
// terminator (a top-level '.' or a closing ']'), consuming the terminator.
func parsePredicateObjects(lex *lexer, prefixes map[string]string, ps *propertySet, terminator tokenKind) error {
	closing := terminator
	for {
		t, err := lex.next()
		if err != nil {
			return err
		}
		if t.kind == closing {
			return nil
		}
		if t.kind != tokIRI && t.kind != tokPName {
			return &ParseError{Line: t.line, Msg: "expected predicate"}
		}
		pred, err := resolveToken(t, prefixes)
		if err != nil {
			return err
		}

		for {
			obj, err := parseObject(lex, prefixes)
			if err != nil {
				return err
			}
			ps.preds[pred] = append(ps.preds[pred], obj)

			sep, err := lex.next()
			if err != nil {
				return err
			}
			if sep.kind == tokComma {
				continue
			}
			if sep.kind == closing {
				return nil
			}
			if sep.kind == tokSemicolon {
				// Tolerate a trailing ';' before the terminator.
				peeked, err := lex.peek()
				if err != nil {
					return err
				}
				if peeked.kind == closing {
					_, _ = lex.next()
					return nil
				}
				break
			}
			return &ParseError{Line: sep.line, Msg: "expected ',', ';', or end of statement"}
		}
	}
}

func parseObject(lex *lexer, prefixes map[string]string) (object, error) {
	t, err := lex.next()
	if err != nil {
		return object{}, err
	}
	switch t.kind {
	case tokIRI, tokPName:
		iri, err := resolveToken(t, prefixes)
		if err != nil {
			return object{}, err
		}
		return object{iri: iri, line: t.line}, nil
	case tokLiteral, tokNumber:
		return object{literal: t.value, isLiteral: true, line: t.line}, nil
	case tokLBracket:
		nested := newPropertySet(t.line)
		if err := parsePredicateObjects(lex, prefixes, nested, tokRBracket); err != nil {
			return object{}, err
		}
		return object{nested: nested, line: t.line}, nil
	case tokLParen:
		var list []object
		for {
			peeked, err := lex.peek()
			if err != nil {
				return object{}, err
			}
			if peeked.kind == tokRParen {
				_, _ = lex.next()
				return object{list: list, line: t.line}, nil
			}
			item, err := parseObject(lex, prefixes)
			if err != nil {
				return object{}, err
			}
			list = append(list, item)
		}
	default:
		return object{}, &ParseError{Line: t.line, Msg: "expected object"}
	}
}

// resolveToken expands a prefixed name against the prefix table. The bare
// keyword "a" resolves to rdf:type.
func resolveToken(t token, prefixes map[string]string) (string, error) {
	if t.kind == tokIRI {
		return t.value, nil
	}
	if t.value == "a" {
		return vocabulary.RDFType, nil
	}
	idx := strings.Index(t.value, ":")
	if idx < 0 {
		return "", &ParseError{Line: t.line, Msg: fmt.Sprintf("expected IRI, got %q", t.value)}
	}
	ns, ok := prefixes[t.value[:idx]]
	if !ok {
		return "", &ParseError{Line: t.line, Msg: fmt.Sprintf("undeclared prefix %q", t.value[:idx])}
	}
	return ns + t.value[idx+1:], nil
}

// assemble interprets the parsed document as an ontology: classes and their
// restrictions, properties and their domain constraints, disjointness, and
// the property hierarchy.
func (p *Parser) assemble(doc *document) (*graph.Directed, *ontology.Context, error) {
	g := graph.New()
	octx := ontology.NewContext()

	classIDs := make(map[ontology.NodeID]bool)
	classMeta := make(map[ontology.NodeID]*propertySet)
	classProps := make(map[ontology.NodeID][]constraint.PropertyConstraint)

	ensureClass := func(id ontology.NodeID) {
		if !classIDs[id] {
			classIDs[id] = true
			g.AddNode(id)
		}
	}

	for _, subj := range doc.order {
		ps := doc.subjects[subj]
		id := ontology.NodeID(subj)

		isClass := ps.hasType(vocabulary.OWLClass) || len(ps.preds[vocabulary.RDFSSubClassOf]) > 0
		isProperty := ps.hasType(vocabulary.OWLObjectProperty) ||
			ps.hasType(vocabulary.OWLDatatypeProperty) ||
			ps.hasType(vocabulary.OWLFunctionalProperty)

		switch {
		case isClass && isProperty:
			return nil, nil, &ParseError{Line: ps.line, Msg: fmt.Sprintf("%s declared as both class and property", subj)}

		case isClass:
			ensureClass(id)
			classMeta[id] = ps

			for _, o := range ps.preds[vocabulary.RDFSSubClassOf] {
				switch {
				case o.iri != "":
					parent := ontology.NodeID(o.iri)
					ensureClass(parent)
					g.AddEdge(id, parent)
				case o.nested != nil:
					pc, err := buildRestriction(o.nested)
					if err != nil {
						return nil, nil, err
					}
					classProps[id] = append(classProps[id], pc)
				default:
					return nil, nil, &ParseError{Line: o.line, Msg: "rdfs:subClassOf expects a class or restriction"}
				}
			}
			for _, o := range ps.preds[vocabulary.OWLDisjointWith] {
				if o.iri == "" {
					return nil, nil, &ParseError{Line: o.line, Msg: "owl:disjointWith expects a class"}
				}
				other := ontology.NodeID(o.iri)
				ensureClass(other)
				octx.DeclareDisjoint(id, other)
			}

		case isProperty:
			label := ps.firstLiteral(vocabulary.RDFSLabel)
			domain := ps.firstIRI(vocabulary.RDFSDomain)
			rng := ps.firstIRI(vocabulary.RDFSRange)
			functional := ps.hasType(vocabulary.OWLFunctionalProperty)

			node := ontology.NewProperty(id, label, ontology.NodeID(domain), ontology.NodeID(rng), functional)
			node.Comment = ps.firstLiteral(vocabulary.RDFSComment)
			octx.AddNode(node)

			for _, o := range ps.preds[vocabulary.RDFSSubPropertyOf] {
				if o.iri == "" {
					return nil, nil, &ParseError{Line: o.line, Msg: "rdfs:subPropertyOf expects a property"}
				}
				octx.DeclarePropertyParent(id, ontology.NodeID(o.iri))
			}

			pc := constraint.PropertyConstraint{
				PropertyIRI: subj,
				Label:       label,
				Source:      constraint.SourceDomain,
			}
			if rng != "" {
				pc.Ranges = []string{rng}
			}
			if functional {
				pc.MaxCardinality = constraint.Card(1)
			}
			if domain == "" || domain == vocabulary.OWLThing {
				octx.AddUniversal(pc)
			} else {
				did := ontology.NodeID(domain)
				ensureClass(did)
				classProps[did] = append(classProps[did], pc)
			}

		default:
			p.logger.Debug("skipping untyped subject", "iri", subj)
		}
	}

	for id := range classIDs {
		var label, comment string
		if ps := classMeta[id]; ps != nil {
			label = ps.firstLiteral(vocabulary.RDFSLabel)
			comment = ps.firstLiteral(vocabulary.RDFSComment)
		}
		props, err := mergeClassConstraints(classProps[id])
		if err != nil {
			return nil, nil, err
		}
		n := ontology.NewClass(id, label, props...)
		n.Comment = comment
		octx.AddNode(n)
	}

	p.logger.Debug("ontology assembled",
		"classes", len(classIDs),
		"nodes", octx.Len(),
		"edges", g.EdgeCount())
	return g, octx, nil
}

// mergeClassConstraints meets the constraints a class accumulated for the
// same property — typically a restriction block plus the facets from the
// property's rdfs:domain declaration — so a class carries at most one
// constraint per property IRI. Subsumption between ranges is not known yet
// at parse time, so the meet runs over a flat hierarchy; the resolver
// re-simplifies against the real one.
func mergeClassConstraints(pcs []constraint.PropertyConstraint) ([]constraint.PropertyConstraint, error) {
	if len(pcs) < 2 {
		return pcs, nil
	}
	groups := make(map[string][]constraint.PropertyConstraint)
	var order []string
	for _, pc := range pcs {
		if _, seen := groups[pc.PropertyIRI]; !seen {
			order = append(order, pc.PropertyIRI)
		}
		groups[pc.PropertyIRI] = append(groups[pc.PropertyIRI], pc)
	}
	out := make([]constraint.PropertyConstraint, 0, len(order))
	for _, iri := range order {
		merged, err := constraint.MeetAll(groups[iri], constraint.FlatHierarchy{})
		if err != nil {
			return nil, err
		}
		out = append(out, merged)
	}
	return out, nil
}

// buildRestriction materializes a bracketed owl:Restriction block into a
// property constraint.
func buildRestriction(ps *propertySet) (constraint.PropertyConstraint, error) {
	onProp := ps.firstIRI(vocabulary.OWLOnProperty)
	if onProp == "" {
		return constraint.PropertyConstraint{}, &ParseError{Line: ps.line, Msg: "owl:Restriction missing owl:onProperty"}
	}
	pc := constraint.PropertyConstraint{
		PropertyIRI: onProp,
		Source:      constraint.SourceRestriction,
	}

	for pred, objs := range ps.preds {
		switch pred {
		case vocabulary.RDFType, vocabulary.OWLOnProperty:
			// Handled above.
		case vocabulary.OWLMinCardinality:
			n, err := cardinality(objs[0])
			if err != nil {
				return constraint.PropertyConstraint{}, err
			}
			pc.MinCardinality = n
		case vocabulary.OWLMaxCardinality:
			n, err := cardinality(objs[0])
			if err != nil {
				return constraint.PropertyConstraint{}, err
			}
			pc.MaxCardinality = constraint.Card(n)
		case vocabulary.OWLCardinality:
			n, err := cardinality(objs[0])
			if err != nil {
				return constraint.PropertyConstraint{}, err
			}
			pc.MinCardinality = n
			pc.MaxCardinality = constraint.Card(n)
		case vocabulary.OWLAllValuesFrom, vocabulary.OWLSomeValuesFrom:
			for _, o := range objs {
				if o.iri == "" {
					return constraint.PropertyConstraint{}, &ParseError{Line: o.line, Msg: "restriction range expects a class or datatype"}
				}
				pc.Ranges = append(pc.Ranges, o.iri)
			}
		case vocabulary.OWLHasValue:
			for _, o := range objs {
				pc.AllowedValues = append(pc.AllowedValues, objectValue(o))
			}
		case vocabulary.OWLOneOf:
			for _, o := range objs {
				if o.list == nil {
					return constraint.PropertyConstraint{}, &ParseError{Line: o.line, Msg: "owl:oneOf expects a collection"}
				}
				for _, item := range o.list {
					pc.AllowedValues = append(pc.AllowedValues, objectValue(item))
				}
			}
		default:
			return constraint.PropertyConstraint{}, &ParseError{Line: ps.line, Msg: fmt.Sprintf("unsupported restriction predicate %s", pred)}
		}
	}
	return pc.Normalize(), nil
}

func cardinality(o object) (uint, error) {
	if !o.isLiteral {
		return 0, &ParseError{Line: o.line, Msg: "cardinality expects an integer literal"}
	}
	n, err := strconv.ParseUint(o.literal, 10, 32)
	if err != nil {
		return 0, &ParseError{Line: o.line, Msg: fmt.Sprintf("invalid cardinality %q", o.literal)}
	}
	return uint(n), nil
}

func objectValue(o object) string {
	if o.isLiteral {
		return o.literal
	}
	return o.iri
}
