package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResults_AddRoutesByKind(t *testing.T) {
	var r Results
	kinds := []Kind{
		KindUpdated, KindUpToDate, KindUnavailable, KindLocalOnly,
		KindNotMapped, KindAlreadyExists, KindError,
	}
	for _, k := range kinds {
		r.add(Outcome{Kind: k})
	}

	assert.Len(t, r.Updated, 1)
	assert.Len(t, r.UpToDate, 1)
	assert.Len(t, r.Unavailable, 1)
	assert.Len(t, r.LocalOnly, 1)
	assert.Len(t, r.NotMapped, 1)
	assert.Len(t, r.AlreadyExists, 1)
	assert.Len(t, r.Errors, 1)
	assert.Equal(t, len(kinds), r.Total())
}

func TestResults_Merge(t *testing.T) {
	a := &Results{Updated: []Outcome{{Kind: KindUpdated}}}
	b := &Results{Errors: []Outcome{{Kind: KindError}}, Updated: []Outcome{{Kind: KindUpdated}}}

	a.Merge(b)
	a.Merge(nil)

	assert.Len(t, a.Updated, 2)
	assert.Len(t, a.Errors, 1)
	assert.Equal(t, 3, a.Total())
}
