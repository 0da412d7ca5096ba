package apidoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario replays one scenario into b.
func scenario(t *testing.T, b *Builder, title string, steps ...Step) {
	t.Helper()
	require.NoError(t, b.ScenarioStart(title))
	for _, s := range steps {
		require.NoError(t, b.Step(s))
	}
	require.NoError(t, b.ScenarioEnd())
}

func TestBuilder_EndToEndScenario(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /users/:id"))
	require.NoError(t, b.Tag("@users"))
	scenario(t, b, "Fetch a user",
		Step{Keyword: "Then ", Text: "the status code is 200"},
		Step{Keyword: "Then ", Text: `the JSON response at "name" should be "Bob"`},
	)
	require.NoError(t, b.FeatureEnd())
	require.NoError(t, b.Done())

	endpoints := b.Endpoints()
	require.Len(t, endpoints, 1)
	e := endpoints[0]
	assert.Equal(t, "GET", e.Verb)
	assert.Equal(t, "/users/:id", e.Path)
	assert.Equal(t, "GET /users/:id", e.Name())
	assert.Equal(t, "@users", e.Tag)
	assert.Equal(t, "users", e.Group.Key)

	require.Len(t, e.Examples, 1)
	ex := e.Examples[0]
	assert.Equal(t, "Fetch a user", ex.Name)
	assert.Equal(t, 200, ex.Code)
	assert.Equal(t, map[string]any{"name": "Bob"}, ex.JSONResponse)
}

func TestBuilder_Prerequisites(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("POST /sessions"))
	scenario(t, b, "Log in",
		Step{Keyword: "Given ", Text: "A"},
		Step{Keyword: "And ", Text: "B"},
		Step{Keyword: "When ", Text: "C"},
	)
	require.NoError(t, b.FeatureEnd())

	ex := b.Endpoints()[0].Examples[0]
	assert.Equal(t, []string{"A", "B"}, ex.Prerequisites)
}

func TestBuilder_ContinuationResetsPerScenario(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /things"))
	scenario(t, b, "first", Step{Keyword: "Given ", Text: "A"})
	scenario(t, b, "second", Step{Keyword: "And ", Text: "orphan"})
	require.NoError(t, b.FeatureEnd())

	examples := b.Endpoints()[0].Examples
	assert.Empty(t, examples[1].Prerequisites)
}

func TestBuilder_ParameterDedup(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /users/:id"))
	scenario(t, b, "by number",
		Step{Keyword: "When ", Text: "I request", Table: [][]string{
			{"type", "name", "value"},
			{"integer", "id", "1"},
		}},
	)
	scenario(t, b, "by slug",
		Step{Keyword: "When ", Text: "I request", Table: [][]string{
			{"type", "name", "value"},
			{"string", "id", "bob"},
			{"string", "fields", "name"},
		}},
	)
	require.NoError(t, b.FeatureEnd())

	e := b.Endpoints()[0]
	assert.Equal(t, []Parameter{
		{Type: "integer", Name: "id"},
		{Type: "string", Name: "fields"},
	}, e.Parameters)
	assert.Equal(t, []Parameter{{Type: "string", Name: "id", Value: "bob"}, {Type: "string", Name: "fields", Value: "name"}},
		e.Examples[1].Parameters)
}

func TestBuilder_CommentDescription(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /users"))
	require.NoError(t, b.Comment("# Lists users.\n# Paginated."))
	require.NoError(t, b.FeatureEnd())

	assert.Equal(t, "Lists users.\nPaginated.", b.Endpoints()[0].Description)
}

func TestBuilder_GroupIdentity(t *testing.T) {
	b := NewBuilder(nil)
	for _, name := range []string{"GET /users", "POST /users"} {
		require.NoError(t, b.FeatureStart(name))
		require.NoError(t, b.Tag("@user_management"))
		require.NoError(t, b.FeatureEnd())
	}

	endpoints := b.Endpoints()
	require.Len(t, endpoints, 2)
	assert.Same(t, endpoints[0].Group, endpoints[1].Group)
	assert.Equal(t, "user_management", endpoints[0].Group.Key)
	assert.Equal(t, "User management", endpoints[0].Group.Name)
}

func TestBuilder_UntaggedEndpointIsUngrouped(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /health"))
	require.NoError(t, b.FeatureEnd())

	assert.Equal(t, UngroupedKey, b.Endpoints()[0].Group.Key)
	assert.Equal(t, "Ungrouped", b.Endpoints()[0].Group.Name)
}

func TestBuilder_MalformedHeader(t *testing.T) {
	for _, name := range []string{"GET", "Users", "GET /users extra", ""} {
		b := NewBuilder(nil)
		err := b.FeatureStart(name)
		assert.ErrorIs(t, err, ErrMalformedHeader, name)
	}
}

func TestBuilder_TwoTokenHeaderWithUnknownVerb(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("List users"))
	require.NoError(t, b.FeatureEnd())

	_, err := NewReport(b.Endpoints())
	assert.ErrorIs(t, err, ErrUnknownVerb)
	assert.ErrorContains(t, err, "List users")
}

func TestBuilder_JSONResponseAssembly(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /orders"))
	scenario(t, b, "list",
		Step{Keyword: "Then ", Text: "the status code is 200"},
		Step{Keyword: "And ", Text: "the Content-Type is application/json"},
		Step{Keyword: "And ", Text: `the JSON response at "orders" should include:`, DocString: `[{"id": 1}]`},
		Step{Keyword: "And ", Text: `the JSON response at "orders/0/total" should be 9.5`},
		Step{Keyword: "And ", Text: `the JSON response at "meta" should include keys:`, Table: [][]string{
			{"key", "value"},
			{"count", "1"},
		}},
	)
	require.NoError(t, b.FeatureEnd())

	ex := b.Endpoints()[0].Examples[0]
	assert.Equal(t, "application/json", ex.ContentType)
	assert.Equal(t, map[string]any{
		"orders": []any{map[string]any{"id": 1.0, "total": 9.5}},
		"meta":   map[string]any{"count": 1.0},
	}, ex.JSONResponse)
}

func TestBuilder_RootDocStringMergesIntoResponse(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /status"))
	scenario(t, b, "status",
		Step{Keyword: "Then ", Text: `the JSON response at "" should include:`, DocString: `{"ok": true}`},
	)
	require.NoError(t, b.FeatureEnd())

	assert.Equal(t, map[string]any{"ok": true}, b.Endpoints()[0].Examples[0].JSONResponse)
}

func TestBuilder_InvalidJSONIsFatal(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.FeatureStart("GET /status"))
	require.NoError(t, b.ScenarioStart("broken"))

	err := b.Step(Step{Keyword: "Then ", Text: `the JSON response at "a" should include:`, DocString: "{"})
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Contains(t, err.Error(), "GET /status")
}

func TestBuilder_EventsOutsideFeature(t *testing.T) {
	b := NewBuilder(nil)
	assert.ErrorIs(t, b.Tag("@x"), ErrNoFeature)
	assert.ErrorIs(t, b.ScenarioStart("x"), ErrNoFeature)
	assert.ErrorIs(t, b.Step(Step{Keyword: "Given", Text: "x"}), ErrNoFeature)
	assert.ErrorIs(t, b.FeatureEnd(), ErrNoFeature)

	require.NoError(t, b.FeatureStart("GET /x"))
	assert.Error(t, b.Done())
}

func TestBuilder_SharedRegistry(t *testing.T) {
	groups := NewGroupRegistry()
	first := NewBuilder(groups)
	second := NewBuilder(groups)

	require.NoError(t, first.FeatureStart("GET /a"))
	require.NoError(t, first.Tag("@shared"))
	require.NoError(t, second.FeatureStart("GET /b"))
	require.NoError(t, second.Tag("@shared"))
	require.NoError(t, first.FeatureEnd())
	require.NoError(t, second.FeatureEnd())

	assert.Same(t, first.Endpoints()[0].Group, second.Endpoints()[0].Group)
	assert.Same(t, groups.ForTag("@shared"), first.Endpoints()[0].Group)
}
