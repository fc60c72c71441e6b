// Package vocabulary defines the RDF, RDFS, OWL, and XSD terms the
// ontology parser and exporters rely on, plus the standard prefix table
// used for IRI compaction.
package vocabulary
