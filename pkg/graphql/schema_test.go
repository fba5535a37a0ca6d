package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gql "github.com/shashiranjanraj/giftwheels/pkg/graphql"
)

func schema(t *testing.T) graphql.Schema {
	t.Helper()
	s, err := gql.NewSchema(graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"ping": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return "pong", nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return s
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	gql.Handler(schema(t))(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ ping }"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pong", body.Data["ping"])
}

func TestHandler_BadBody(t *testing.T) {
	rec := httptest.NewRecorder()
	gql.Handler(schema(t))(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`nope`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
