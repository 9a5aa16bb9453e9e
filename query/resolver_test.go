package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_SeparatorAndCaseInvariance(t *testing.T) {
	r := NewResolver([]string{"repo_name", "stars", "open-issues"})

	for _, name := range []string{"repo_name", "Repo Name", "REPO-NAME", "repoName", " repo  name ", "RepoName"} {
		t.Run(name, func(t *testing.T) {
			got, err := r.Resolve(name)
			require.NoError(t, err)
			assert.Equal(t, "repo_name", got)
		})
	}

	got, err := r.Resolve("Open Issues")
	require.NoError(t, err)
	assert.Equal(t, "open-issues", got)
}

func TestResolver_PartialMatchOnlySuggests(t *testing.T) {
	r := NewResolver([]string{"repo_name", "stars"})

	for _, name := range []string{"name", "repo", "Repo"} {
		t.Run(name, func(t *testing.T) {
			got, err := r.Resolve(name)
			require.Error(t, err)
			assert.Empty(t, got)

			var fieldErr *FieldNotFoundError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, []string{"repo_name"}, fieldErr.Candidates)
			assert.ErrorIs(t, err, ErrFieldNotFound)
			assert.False(t, fieldErr.Ambiguous())
		})
	}
}

func TestResolver_Ambiguous(t *testing.T) {
	r := NewResolver([]string{"repo_name", "full_name", "stars"})

	_, err := r.Resolve("name")
	require.Error(t, err)

	var fieldErr *FieldNotFoundError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "name", fieldErr.Field)
	assert.Equal(t, []string{"full_name", "repo_name"}, fieldErr.Candidates)
	assert.True(t, fieldErr.Ambiguous())
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.Contains(t, err.Error(), "full_name, repo_name")
}

func TestResolver_ExactNormalizedCollision(t *testing.T) {
	r := NewResolver([]string{"repo_name", "Repo Name", "stars"})

	_, err := r.Resolve("repo-name")
	var fieldErr *FieldNotFoundError
	require.True(t, errors.As(err, &fieldErr))
	assert.ElementsMatch(t, []string{"repo_name", "Repo Name"}, fieldErr.Candidates)
}

func TestResolver_NotFound(t *testing.T) {
	r := NewResolver([]string{"repo_name", "stars"})

	for _, name := range []string{"owner", "", "  ", "_-"} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(name)
			var fieldErr *FieldNotFoundError
			require.True(t, errors.As(err, &fieldErr))
			assert.Empty(t, fieldErr.Candidates)
			assert.False(t, fieldErr.Ambiguous())
		})
	}
}

func TestResolver_PartialRunMustBeContiguous(t *testing.T) {
	r := NewResolver([]string{"repo_owner_name"})

	_, err := r.Resolve("repo name")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	var fieldErr *FieldNotFoundError
	require.True(t, errors.As(err, &fieldErr))
	assert.Empty(t, fieldErr.Candidates)

	_, err = r.Resolve("owner name")
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, []string{"repo_owner_name"}, fieldErr.Candidates)
}

func TestNewResolverFromRows_SamplesLeadingRows(t *testing.T) {
	rows := []Row{
		{"a": "1"}, {"b": "1"}, {"c": "1"}, {"d": "1"}, {"e": "1"},
		{"late_column": "1"},
	}

	r := NewResolverFromRows(rows)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, r.Fields())

	_, err := r.Resolve("late column")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestNewResolverFromRows_Empty(t *testing.T) {
	r := NewResolverFromRows(nil)
	assert.Empty(t, r.Fields())

	_, err := r.Resolve("stars")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}
