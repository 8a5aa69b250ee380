package session

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
)

func TestParseInteractiveCollectsActionableElements(t *testing.T) {
	const page = `<html><head><title>Login</title></head><body>
		<a href="/signup">Create an account</a>
		<a href="javascript:void(0)">Noise</a>
		<form>
			<input type="hidden" name="csrf" value="tok">
			<input type="email" placeholder="Email address">
			<input type="password" aria-label="Password">
			<input type="submit" value="Sign in">
			<select name="locale"><option>en</option></select>
			<textarea name="notes"></textarea>
		</form>
		<button>   Help   &amp; support </button>
	</body></html>`

	elements, err := parseInteractive(page)
	require.NoError(t, err)

	want := []schemas.PageElement{
		{Ref: "@e1", Role: schemas.RoleLink, Name: "Create an account", Href: "/signup"},
		{Ref: "@e2", Role: schemas.RoleInput, Name: "Email address"},
		{Ref: "@e3", Role: schemas.RoleInput, Name: "Password"},
		{Ref: "@e4", Role: schemas.RoleButton, Name: "Sign in"},
		{Ref: "@e5", Role: schemas.RoleSelect, Name: "locale"},
		{Ref: "@e6", Role: schemas.RoleTextarea, Name: "notes"},
		{Ref: "@e7", Role: schemas.RoleButton, Name: "Help & support"},
	}

	if diff := cmp.Diff(want, elements); diff != "" {
		t.Errorf("snapshot elements mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInteractiveEmptyPage(t *testing.T) {
	elements, err := parseInteractive("<html><body><p>Nothing to do here.</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestParseInteractiveTruncatesLongNames(t *testing.T) {
	long := "<html><body><button>"
	for i := 0; i < 40; i++ {
		long += "click me "
	}
	long += "</button></body></html>"

	elements, err := parseInteractive(long)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.LessOrEqual(t, len(elements[0].Name), 80)
}

func TestParseInteractiveTruncatesOnRuneBoundary(t *testing.T) {
	// Three bytes per rune; 80 is not a multiple of 3, so a byte-index cut
	// would tear the rune that straddles it.
	long := "<html><body><button>" + strings.Repeat("日", 40) + "</button></body></html>"

	elements, err := parseInteractive(long)
	require.NoError(t, err)
	require.Len(t, elements, 1)

	name := elements[0].Name
	assert.LessOrEqual(t, len(name), 80)
	assert.True(t, utf8.ValidString(name), "truncated name must stay valid UTF-8")
	assert.Equal(t, strings.Repeat("日", 26), name)
}
