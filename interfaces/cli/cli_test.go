package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"holocron/infrastructure/config"
	"holocron/infrastructure/di"
	"holocron/interfaces/cli"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vader = `{
	"name": "Darth Vader", "height": "202", "mass": "136",
	"hair_color": "none", "skin_color": "white", "eye_color": "yellow",
	"birth_year": "41.9BBY", "gender": "male",
	"films": [], "species": [], "vehicles": [], "starships": ["https://swapi.test/api/starships/13/"],
	"url": "https://swapi.test/api/people/4/"
}`

func newTestCLI(t *testing.T) (*cli.CLI, *bytes.Buffer) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/people":
			if r.URL.Query().Get("search") == "nobody" {
				_, _ = w.Write([]byte(`{"count": 0, "next": null, "previous": null, "results": []}`))
				return
			}
			_, _ = w.Write([]byte(`{"count": 1, "next": null, "previous": null, "results": [` + vader + `]}`))
		case "/people/4/":
			_, _ = w.Write([]byte(vader))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.CatalogBaseURL = upstream.URL
	cfg.LogLevel = "error"
	cfg.EnableMetrics = false
	cfg.SearchDebounce = 5 * time.Millisecond

	container, cleanup, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	session := container.Sessions.Create(context.Background())
	out := &bytes.Buffer{}
	return cli.NewCLI(session, container.CommandBus, container.QueryBus, 2*time.Second, nil, out), out
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"list", []string{"list"}},
		{"  show   4 ", []string{"show", "4"}},
		{`search "Darth Vader"`, []string{"search", "Darth Vader"}},
		{`edit 4 name="Anakin Skywalker" height=188`, []string{"edit", "4", "name=Anakin Skywalker", "height=188"}},
		{`search ""`, []string{"search", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ParseArgs(tt.input))
		})
	}
}

func TestCLI_SearchAndList(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, c.ExecuteCommand(ctx, []string{"search", "Darth", "Vader"}))

	assert.Contains(t, out.String(), "   4  Darth Vader")
	assert.Contains(t, out.String(), "Showing 1 of 1.")
	assert.Equal(t, "holocron [Darth Vader]> ", c.Prompt)

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"search", "nobody"}))
	assert.Contains(t, out.String(), "No characters found.")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"more"}))
	assert.Contains(t, out.String(), "No more characters.")
}

func TestCLI_EditShowAndReset(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()

	// Act
	err := c.ExecuteCommand(ctx, cli.ParseArgs(`edit 4 name="Anakin Skywalker" height=188 mass=84`))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Character information saved locally!")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"show", "4"}))
	assert.Contains(t, out.String(), "Anakin Skywalker (edited locally)")
	assert.Contains(t, out.String(), "Height:     188")
	assert.Contains(t, out.String(), "Starships:  1")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"edits"}))
	assert.Contains(t, out.String(), "   4  Anakin Skywalker")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"reset", "4"}))
	assert.Contains(t, out.String(), "Discarded the local edit of Anakin Skywalker.")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"show", "4"}))
	assert.Contains(t, out.String(), "Darth Vader\n")
}

func TestCLI_EditRejectsInvalidValues(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()

	err := c.ExecuteCommand(ctx, []string{"edit", "4", "height=tall", "birth_year=soon"})

	require.Error(t, err)
	assert.Contains(t, out.String(), `height: Height must be a number or "unknown"`)
	assert.Contains(t, out.String(), "birth_year:")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"edits"}))
	assert.Contains(t, out.String(), "No local edits.")
}

func TestCLI_EditRejectsUnknownField(t *testing.T) {
	c, _ := newTestCLI(t)

	err := c.ExecuteCommand(context.Background(), []string{"edit", "4", "homeworld=Tatooine"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "homeworld"`)
}

func TestCLI_Clear(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"edit", "4", "gender=unknown"}))

	require.NoError(t, c.ExecuteCommand(ctx, []string{"clear"}))

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"edits"}))
	assert.Contains(t, out.String(), "No local edits.")
}

func TestCLI_ShowUnknownCharacter(t *testing.T) {
	c, _ := newTestCLI(t)

	err := c.ExecuteCommand(context.Background(), []string{"show", "99"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error! status: 404")
}

func TestCLI_HelpUnknownAndExit(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, c.ExecuteCommand(ctx, []string{"help"}))
	assert.Contains(t, out.String(), "Available commands:")

	out.Reset()
	require.NoError(t, c.ExecuteCommand(ctx, []string{"help", "edit"}))
	assert.Contains(t, out.String(), "Syntax: edit <id> <field>=<value>...")

	assert.EqualError(t, c.ExecuteCommand(ctx, []string{"fly"}), "unknown command: fly")
	assert.ErrorIs(t, c.ExecuteCommand(ctx, []string{"exit"}), cli.ErrExit)
}
