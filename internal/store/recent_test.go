package store

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

func production(id string) models.Production {
	return models.Production{ID: id, Liters: 1}
}

func ids(items []models.Production) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestRecentProductionsPushIsNewestFirst(t *testing.T) {
	var r RecentProductions
	r = r.Push(production("a"))
	r = r.Push(production("b"))
	r = r.Push(production("c"))

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"c", "b", "a"}, ids(r.Items()))
}

func TestRecentProductionsDropsOldestWhenFull(t *testing.T) {
	var r RecentProductions
	for i := 0; i < 13; i++ {
		r = r.Push(production(fmt.Sprintf("p%d", i)))
	}

	require.Equal(t, RecentCapacity, r.Len())
	assert.Equal(t, []string{"p12", "p11", "p10", "p9", "p8", "p7", "p6", "p5", "p4", "p3"}, ids(r.Items()))
}

func TestRecentProductionsPushLeavesReceiverUntouched(t *testing.T) {
	var r RecentProductions
	r = r.Push(production("a"))

	next := r.Push(production("b"))

	assert.Equal(t, []string{"a"}, ids(r.Items()))
	assert.Equal(t, []string{"b", "a"}, ids(next.Items()))
}

func TestNewRecentProductionsKeepsHeadOfList(t *testing.T) {
	var input []models.Production
	for i := 0; i < 12; i++ {
		input = append(input, production(fmt.Sprintf("p%d", i)))
	}

	r := NewRecentProductions(input)

	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"}, ids(r.Items()))
}

func TestRecentProductionsJSON(t *testing.T) {
	r := NewRecentProductions([]models.Production{production("b"), production("a")})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded RecentProductions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"b", "a"}, ids(decoded.Items()))

	empty, err := json.Marshal(RecentProductions{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))
}
