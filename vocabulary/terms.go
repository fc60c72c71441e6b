package vocabulary

// Base namespaces for the standard vocabularies.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF terms.
const (
	// RDFType is the rdf:type predicate.
	RDFType = RDFNamespace + "type"

	// RDFFirst and RDFRest encode collection cells.
	RDFFirst = RDFNamespace + "first"
	RDFRest  = RDFNamespace + "rest"
	RDFNil   = RDFNamespace + "nil"
)

// RDFS terms.
const (
	// RDFSLabel is the human-readable name of a resource.
	RDFSLabel = RDFSNamespace + "label"

	// RDFSComment is the human-readable description of a resource.
	RDFSComment = RDFSNamespace + "comment"

	// RDFSSubClassOf is the class-hierarchy edge (child to parent).
	RDFSSubClassOf = RDFSNamespace + "subClassOf"

	// RDFSSubPropertyOf is the property-hierarchy edge.
	RDFSSubPropertyOf = RDFSNamespace + "subPropertyOf"

	// RDFSDomain declares the class a property applies to.
	RDFSDomain = RDFSNamespace + "domain"

	// RDFSRange declares the value type of a property.
	RDFSRange = RDFSNamespace + "range"

	// RDFSResource is the root resource class.
	RDFSResource = RDFSNamespace + "Resource"
)

// OWL terms.
const (
	OWLClass              = OWLNamespace + "Class"
	OWLThing              = OWLNamespace + "Thing"
	OWLNothing            = OWLNamespace + "Nothing"
	OWLObjectProperty     = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty   = OWLNamespace + "DatatypeProperty"
	OWLAnnotationProperty = OWLNamespace + "AnnotationProperty"
	OWLFunctionalProperty = OWLNamespace + "FunctionalProperty"
	OWLRestriction        = OWLNamespace + "Restriction"
	OWLOnProperty         = OWLNamespace + "onProperty"
	OWLMinCardinality     = OWLNamespace + "minCardinality"
	OWLMaxCardinality     = OWLNamespace + "maxCardinality"
	OWLCardinality        = OWLNamespace + "cardinality"
	OWLAllValuesFrom      = OWLNamespace + "allValuesFrom"
	OWLSomeValuesFrom     = OWLNamespace + "someValuesFrom"
	OWLHasValue           = OWLNamespace + "hasValue"
	OWLOneOf              = OWLNamespace + "oneOf"
	OWLDisjointWith       = OWLNamespace + "disjointWith"
	OWLEquivalentClass    = OWLNamespace + "equivalentClass"
)

// XSD datatypes commonly used as property ranges.
const (
	XSDString   = XSDNamespace + "string"
	XSDBoolean  = XSDNamespace + "boolean"
	XSDInteger  = XSDNamespace + "integer"
	XSDInt      = XSDNamespace + "int"
	XSDLong     = XSDNamespace + "long"
	XSDDecimal  = XSDNamespace + "decimal"
	XSDFloat    = XSDNamespace + "float"
	XSDDouble   = XSDNamespace + "double"
	XSDDate     = XSDNamespace + "date"
	XSDDateTime = XSDNamespace + "dateTime"
	XSDTime     = XSDNamespace + "time"
	XSDAnyURI   = XSDNamespace + "anyURI"
)

// StandardPrefixes returns the prefix table used for IRI compaction in
// exports and for seeding parser prefix maps.
func StandardPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"xsd":  XSDNamespace,
	}
}

// IsDatatype reports whether the IRI names an XSD datatype rather than a
// class. Range sets mixing datatypes and classes are treated as opaque by
// subsumption reasoning, so this check gates schema type mapping only.
func IsDatatype(iri string) bool {
	return len(iri) > len(XSDNamespace) && iri[:len(XSDNamespace)] == XSDNamespace
}
