package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "personas.json", `[
		{"id":"founder","title":"Startup Founder","profile":"Builds a small SaaS.","age_demography":"30-40","tech_savviness":"high","product_context":"devtools"}
	]`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.All(), 1)

	d, err := c.Get("founder")
	require.NoError(t, err)
	assert.Equal(t, "Startup Founder", d.Title)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "personas.yaml", `
- id: ops-lead
  title: Operations Lead
  profile: Runs a 20-person support team.
  age_demography: 40-50
  tech_savviness: medium
  product_context: support tooling
`)
	c, err := Load(path)
	require.NoError(t, err)

	d, err := c.Get("ops-lead")
	require.NoError(t, err)
	assert.Equal(t, "Runs a 20-person support team.", d.Profile)
}

func TestNewCatalog_Validation(t *testing.T) {
	_, err := NewCatalog([]Definition{{ID: "a", Profile: "p"}, {ID: "a", Profile: "p"}})
	require.Error(t, err)

	_, err = NewCatalog([]Definition{{ID: "", Profile: "p"}})
	require.Error(t, err)

	_, err = NewCatalog([]Definition{{ID: "a", Profile: " "}})
	require.Error(t, err)
}

func TestResolveProfile_Priority(t *testing.T) {
	c, err := NewCatalog([]Definition{{ID: "founder", Profile: "catalog profile"}})
	require.NoError(t, err)

	got, err := c.ResolveProfile("inline persona", "inline profile", "founder")
	require.NoError(t, err)
	assert.Equal(t, "inline persona", got)

	got, err = c.ResolveProfile("", "inline profile", "founder")
	require.NoError(t, err)
	assert.Equal(t, "inline profile", got)

	got, err = c.ResolveProfile("", "", "founder")
	require.NoError(t, err)
	assert.Equal(t, "catalog profile", got)

	_, err = c.ResolveProfile("", "", "missing")
	require.ErrorIs(t, err, ErrPersonaNotFound)

	_, err = c.ResolveProfile("", "", "")
	require.ErrorIs(t, err, ErrNoProfile)
}

func TestResolveProfile_NilCatalog(t *testing.T) {
	var c *Catalog
	got, err := c.ResolveProfile("inline", "", "")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	_, err = c.ResolveProfile("", "", "founder")
	require.ErrorIs(t, err, ErrPersonaNotFound)
}
