// Package graph exposes the inventory services over GraphQL.
package graph

import (
	_ "embed"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

const (
	maxQueryDepth  = 12
	maxParallelism = 16
)

// NewSchema parses the embedded schema and binds it to r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.MaxParallelism(maxParallelism),
	)
}

// Handler serves POST /graphql.
func Handler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
