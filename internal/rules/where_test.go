package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/esreport/pkg/model"
)

func TestEngine_Where(t *testing.T) {
	e := newTestEngine(t)
	in := tableOf([]string{"host", "latency"},
		[]string{"web-1", "120"},
		[]string{"web-2", "80"},
		[]string{"db-1", "300"},
	)

	tests := []struct {
		name string
		expr string
		want [][]string
	}{
		{"equality", `row["host"] == "web-2"`, [][]string{{"web-2", "80"}}},
		{"prefix", `row["host"].startsWith("web")`, [][]string{{"web-1", "120"}, {"web-2", "80"}}},
		{"numeric", `int(row["latency"]) >= 120`, [][]string{{"web-1", "120"}, {"db-1", "300"}}},
		{"key presence", `"owner" in row`, [][]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Where(in, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Records())
		})
	}
}

func TestEngine_Where_Invalid(t *testing.T) {
	e := newTestEngine(t)
	in := tableOf([]string{"host"}, []string{"web-1"})

	tests := []struct {
		name string
		expr string
	}{
		{"syntax", `row["host"] ==`},
		{"not bool", `row["host"]`},
		{"unknown variable", `doc.host == "x"`},
		{"missing key at runtime", `row["owner"] == "ops"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Where(in, tt.expr)
			assert.ErrorIs(t, err, model.ErrInvalidRule)
		})
	}
}

func TestWhereCompiler_Evicts(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < maxPrograms+5; i++ {
		_, err := e.where.program(fmt.Sprintf(`row["n"] == "%d"`, i))
		require.NoError(t, err)
	}
	assert.Len(t, e.where.cache, maxPrograms)
	assert.Len(t, e.where.order, maxPrograms)
	_, ok := e.where.cache[`row["n"] == "0"`]
	assert.False(t, ok)
}
