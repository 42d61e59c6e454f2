package snowflake

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline-io/frostline/internal/engine"
	"github.com/frostline-io/frostline/internal/spec"
)

// The SHOW SERVICES output reports managing_object_name as a bare name while
// the workspace declares the model under its qualified name. Discovery has to
// bridge that, or a model with live services can never be torn down.
func TestDiscoverDependents_BareManagingObjectName(t *testing.T) {
	const (
		scope   = "IMAGING_DB.IMAGING_SCHEMA"
		service = "REGISTRATION_MODEL_SERVICE_A1B2"
	)

	api := &fakeAPI{t: t, respond: func(stmt string) (int, statementResponse) {
		switch stmt {
		case "SHOW SERVICES IN SCHEMA " + scope:
			return http.StatusOK, rowsResponse([]string{"name"}, [][]string{{service}})
		case "SHOW SERVICES LIKE '" + service + "' IN SCHEMA " + scope:
			return http.StatusOK, rowsResponse(
				[]string{"name", "managing_object_name"},
				[][]string{{service, "REGISTRATION_MODEL"}},
			)
		default:
			t.Fatalf("unexpected statement: %s", stmt)
			return 0, statementResponse{}
		}
	}}
	client, done := newTestClient(t, api)
	defer done()

	owner := &spec.Resource{
		Kind:   spec.KindModel,
		Name:   scope + ".REGISTRATION_MODEL",
		Parent: scope,
	}

	orch := engine.New(client)
	dependents, err := orch.DiscoverDependents(context.Background(), owner, engine.DefaultQueries()[spec.KindModel])
	require.NoError(t, err)

	require.Len(t, dependents, 1)
	assert.Equal(t, spec.KindService, dependents[0].Kind)
	assert.Equal(t, scope+"."+service, dependents[0].Name)
}

func TestTeardownModel_DropsDiscoveredServiceFirst(t *testing.T) {
	const (
		scope   = "IMAGING_DB.IMAGING_SCHEMA"
		service = "REGISTRATION_MODEL_SERVICE_A1B2"
	)

	api := &fakeAPI{t: t, respond: func(stmt string) (int, statementResponse) {
		switch stmt {
		case "SHOW SERVICES IN SCHEMA " + scope:
			return http.StatusOK, rowsResponse([]string{"name"}, [][]string{{service}})
		case "SHOW SERVICES LIKE '" + service + "' IN SCHEMA " + scope:
			return http.StatusOK, rowsResponse(
				[]string{"name", "managing_object_name"},
				[][]string{{service, "REGISTRATION_MODEL"}},
			)
		default:
			return http.StatusOK, statementResponse{}
		}
	}}
	client, done := newTestClient(t, api)
	defer done()

	resources := []*spec.Resource{
		{Kind: spec.KindModel, Name: scope + ".REGISTRATION_MODEL", Parent: scope},
	}

	outcomes, err := engine.New(client).Teardown(context.Background(), resources)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "service."+scope+"."+service, outcomes[0].Target)
	assert.Equal(t, spec.StatusSuccess, outcomes[0].Status)
	assert.Equal(t, "model."+scope+".REGISTRATION_MODEL", outcomes[1].Target)
	assert.Equal(t, spec.StatusSuccess, outcomes[1].Status)

	assert.Contains(t, api.statements, "DROP SERVICE IF EXISTS "+scope+"."+service)
	assert.Contains(t, api.statements, "DROP MODEL IF EXISTS "+scope+".REGISTRATION_MODEL")
}
